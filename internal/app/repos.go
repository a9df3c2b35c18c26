package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/guideance-backend/internal/data/repos"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	Tag          repos.TagRepo
	Subscription repos.SubscriptionRepo
	ArticleTag   repos.ArticleTagRepo
	Article      repos.ArticleRepo
	Comment      repos.CommentRepo
	Like         repos.LikeRepo
	Feed         repos.FeedRepo
	Notice       repos.NoticeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Tag:          repos.NewTagRepo(db, log),
		Subscription: repos.NewSubscriptionRepo(db, log),
		ArticleTag:   repos.NewArticleTagRepo(db, log),
		Article:      repos.NewArticleRepo(db, log),
		Comment:      repos.NewCommentRepo(db, log),
		Like:         repos.NewLikeRepo(db, log),
		Feed:         repos.NewFeedRepo(db, log),
		Notice:       repos.NewNoticeRepo(db, log),
	}
}
