package dataset

import (
	"fmt"
	"time"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// SplitByDatetime 按时间切分：before 为 t < cut，after 为 t >= cut，组内保持原顺序。
func SplitByDatetime[T Timestamped](rows []T, cut time.Time) (before, after []T) {
	before, after = make([]T, 0), make([]T, 0)
	for _, row := range rows {
		if row.Time().Before(cut) {
			before = append(before, row)
		} else {
			after = append(after, row)
		}
	}
	return before, after
}

// SplitByYear 按上映年份切分电影：before 为 year < cut，after 为 year >= cut。
func SplitByYear(movies []Movie, cut int) (before, after []Movie) {
	before, after = make([]Movie, 0), make([]Movie, 0)
	for _, m := range movies {
		if m.Year < cut {
			before = append(before, m)
		} else {
			after = append(after, m)
		}
	}
	return before, after
}

// SelectByMovieGroup 只保留电影 ID 属于 group 的行，保持原顺序。
func SelectByMovieGroup[T MovieKeyed](rows []T, group []core.EntityID) []T {
	set := make(map[core.EntityID]struct{}, len(group))
	for _, id := range group {
		set[id] = struct{}{}
	}
	out := make([]T, 0)
	for _, row := range rows {
		if _, ok := set[row.Movie()]; ok {
			out = append(out, row)
		}
	}
	return out
}

// Row 是可以被 CEL 表达式访问的行。
type Row interface {
	Fields() map[string]any
}

// Where 用 CEL 表达式筛选行，例如 `row.rating >= 4.0`。
func Where[T Row](rows []T, expr string) ([]T, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for i, row := range rows {
		ok, err := prg.Match(row.Fields())
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r Rating) Fields() map[string]any {
	return map[string]any{
		"user_id":   int64(r.UserID),
		"movie_id":  int64(r.MovieID),
		"rating":    r.Rating,
		"timestamp": r.Timestamp,
	}
}

func (t Tag) Fields() map[string]any {
	return map[string]any{
		"user_id":   int64(t.UserID),
		"movie_id":  int64(t.MovieID),
		"tag":       t.Tag,
		"timestamp": t.Timestamp,
	}
}

func (m Movie) Fields() map[string]any {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return map[string]any{
		"movie_id": int64(m.MovieID),
		"title":    m.Title,
		"genres":   genres,
		"year":     int64(m.Year),
	}
}

func (g GenomeScore) Fields() map[string]any {
	return map[string]any{
		"movie_id":  int64(g.MovieID),
		"tag_id":    int64(g.TagID),
		"relevance": g.Relevance,
		"tag":       g.Tag,
	}
}
