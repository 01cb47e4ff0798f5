package core

import (
	"fmt"
	"math"
)

// EntityID 是用户或电影的 ID（MovieLens 中均为无符号整数）。
type EntityID uint32

// Pair 是一个待打分单元，始终以 (user, movie) 的顺序表达，与推荐方向无关。
type Pair struct {
	User  EntityID `json:"user"`
	Movie EntityID `json:"movie"`
}

// Direction 表示推荐方向。
type Direction string

const (
	// DirectionMovie 为每个用户推荐电影（源实体 = user，目标实体 = movie）
	DirectionMovie Direction = "movie"
	// DirectionUser 为每部电影推荐用户（源实体 = movie，目标实体 = user）
	DirectionUser Direction = "user"
)

// ParseDirection 解析推荐方向，非法值返回 ErrInvalidDirection。
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionMovie, DirectionUser:
		return d, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidDirection)
	}
}

func (d Direction) Valid() bool {
	return d == DirectionMovie || d == DirectionUser
}

// Optional 是一个可空的单元格值，Valid=false 表示“没有值”。
type Optional[T any] struct {
	V     T
	Valid bool
}

// Some 构造一个有值的 Optional。
func Some[T any](v T) Optional[T] {
	return Optional[T]{V: v, Valid: true}
}

// Get 返回值与是否有效。
func (o Optional[T]) Get() (T, bool) {
	return o.V, o.Valid
}

// IsMissing 判断分数是否缺失（NaN / ±Inf）。
func IsMissing(score float64) bool {
	return math.IsNaN(score) || math.IsInf(score, 0)
}

// Missing 返回缺失分数的表示（NaN）。
func Missing() float64 {
	return math.NaN()
}
