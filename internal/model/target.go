package model

import (
	"fmt"
	"strconv"
)

// TargetKind 动态可指向的实体类型
type TargetKind string

const (
	TargetUser  TargetKind = "user"
	TargetImage TargetKind = "image"
)

// Target 动态的作用对象，仅 UserTarget / ImageTarget 两种实现
type Target interface {
	Kind() TargetKind
	// Ref 返回持久化用的 id 文本
	Ref() string
	isTarget()
}

type UserTarget struct{ ID string }

func (UserTarget) Kind() TargetKind { return TargetUser }
func (t UserTarget) Ref() string    { return t.ID }
func (UserTarget) isTarget()        {}

type ImageTarget struct{ ID uint64 }

func (ImageTarget) Kind() TargetKind { return TargetImage }
func (t ImageTarget) Ref() string    { return strconv.FormatUint(t.ID, 10) }
func (ImageTarget) isTarget()        {}

// ParseTarget 从 (kind, id) 列还原 Target；kind 为空表示无对象
func ParseTarget(kind, ref string) (Target, error) {
	switch TargetKind(kind) {
	case "":
		return nil, nil
	case TargetUser:
		if ref == "" {
			return nil, fmt.Errorf("empty user target id")
		}
		return UserTarget{ID: ref}, nil
	case TargetImage:
		id, err := strconv.ParseUint(ref, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("image target id %q: %w", ref, err)
		}
		return ImageTarget{ID: id}, nil
	default:
		return nil, fmt.Errorf("unknown target kind %q", kind)
	}
}
