package domain

import (
	"github.com/yungbote/guideance-backend/internal/domain/content"
	"github.com/yungbote/guideance-backend/internal/domain/notice"
	"github.com/yungbote/guideance-backend/internal/domain/tagging"
	"github.com/yungbote/guideance-backend/internal/domain/user"
)

type User = user.User
type DeletePolicy = user.DeletePolicy

const (
	DeletePolicyCascade = user.DeletePolicyCascade
	DeletePolicyDetach  = user.DeletePolicyDetach
)

type Article = content.Article
type Comment = content.Comment
type Like = content.Like
type ArticleSummary = content.ArticleSummary
type CommentSummary = content.CommentSummary

type Tag = tagging.Tag
type ArticleTag = tagging.ArticleTag
type Subscription = tagging.Subscription

type Notice = notice.Notice
type NoticeSubjectKind = notice.SubjectKind

const NoticeSubjectArticle = notice.SubjectArticle

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Article{},
		&ArticleTag{},
		&Subscription{},
		&Comment{},
		&Like{},
		&Notice{},
	}
}
