package model

import "time"

// 常用动词
const (
	VerbCreatedAccount = "has created an account"
	VerbFollowing      = "is following"
	VerbLikes          = "likes"
	VerbBookmarked     = "bookmarked image"
)

// Action 用户动态：actor 对 target（可选）做了 verb
type Action struct {
	ID         uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ActorID    string    `json:"actor_id" gorm:"type:varchar(36);not null;index:idx_action_dedup,priority:1"`
	Verb       string    `json:"verb" gorm:"type:varchar(255);not null;index:idx_action_dedup,priority:2"`
	TargetKind *string   `json:"target_kind,omitempty" gorm:"type:varchar(16);index:idx_action_target,priority:1"`
	TargetID   *string   `json:"target_id,omitempty" gorm:"type:varchar(36);index:idx_action_target,priority:2"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;index:idx_action_dedup,priority:3;index:idx_action_created,sort:desc"`
}

func (Action) TableName() string { return "actions" }

// SetTarget 写入 target 列；nil 清空
func (a *Action) SetTarget(t Target) {
	if t == nil {
		a.TargetKind, a.TargetID = nil, nil
		return
	}
	kind, ref := string(t.Kind()), t.Ref()
	a.TargetKind, a.TargetID = &kind, &ref
}

// Target 还原作用对象，无对象时返回 nil
func (a *Action) Target() (Target, error) {
	if a.TargetKind == nil {
		return nil, nil
	}
	ref := ""
	if a.TargetID != nil {
		ref = *a.TargetID
	}
	return ParseTarget(*a.TargetKind, ref)
}
