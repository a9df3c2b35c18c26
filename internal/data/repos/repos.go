package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/guideance-backend/internal/data/repos/content"
	"github.com/yungbote/guideance-backend/internal/data/repos/notice"
	"github.com/yungbote/guideance-backend/internal/data/repos/tagging"
	"github.com/yungbote/guideance-backend/internal/data/repos/user"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type TagRepo = tagging.TagRepo
type SubscriptionRepo = tagging.SubscriptionRepo
type ArticleTagRepo = tagging.ArticleTagRepo

type ArticleRepo = content.ArticleRepo
type CommentRepo = content.CommentRepo
type LikeRepo = content.LikeRepo
type FeedRepo = content.FeedRepo

type NoticeRepo = notice.NoticeRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo { return tagging.NewTagRepo(db, baseLog) }
func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return tagging.NewSubscriptionRepo(db, baseLog)
}
func NewArticleTagRepo(db *gorm.DB, baseLog *logger.Logger) ArticleTagRepo {
	return tagging.NewArticleTagRepo(db, baseLog)
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return content.NewArticleRepo(db, baseLog)
}
func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return content.NewCommentRepo(db, baseLog)
}
func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	return content.NewLikeRepo(db, baseLog)
}
func NewFeedRepo(db *gorm.DB, baseLog *logger.Logger) FeedRepo {
	return content.NewFeedRepo(db, baseLog)
}

func NewNoticeRepo(db *gorm.DB, baseLog *logger.Logger) NoticeRepo {
	return notice.NewNoticeRepo(db, baseLog)
}
