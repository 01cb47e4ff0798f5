// Package dataset 提供 MovieLens 风格数据表（ratings / tags / movies / genome）的
// 切分、筛选与持久化工具。
package dataset

import (
	"time"

	"github.com/rushteam/movierec/core"
)

// Rating 是一条评分。Timestamp 为 Unix 秒。
type Rating struct {
	UserID    core.EntityID
	MovieID   core.EntityID
	Rating    float64
	Timestamp int64
}

// Tag 是用户给电影打的一条标签。
type Tag struct {
	UserID    core.EntityID
	MovieID   core.EntityID
	Tag       string
	Timestamp int64
}

// Movie 是电影元数据；Year 为 0 表示标题中没有年份。
type Movie struct {
	MovieID core.EntityID
	Title   string
	Genres  []string
	Year    int
}

// GenomeScore 是 tag genome 中电影与标签的相关度。
type GenomeScore struct {
	MovieID   core.EntityID
	TagID     uint32
	Relevance float64
	Tag       string
}

// Datagroup 是一组相互关联的数据表。
type Datagroup struct {
	Ratings []Rating
	Tags    []Tag
	Movies  []Movie
	Genome  []GenomeScore
}

// Timestamped 是带时间戳的行。
type Timestamped interface {
	Time() time.Time
}

// MovieKeyed 是带电影 ID 的行。
type MovieKeyed interface {
	Movie() core.EntityID
}

func (r Rating) Time() time.Time          { return time.Unix(r.Timestamp, 0).UTC() }
func (t Tag) Time() time.Time             { return time.Unix(t.Timestamp, 0).UTC() }
func (r Rating) Movie() core.EntityID      { return r.MovieID }
func (t Tag) Movie() core.EntityID         { return t.MovieID }
func (m Movie) Movie() core.EntityID       { return m.MovieID }
func (g GenomeScore) Movie() core.EntityID { return g.MovieID }

// TrainPairs 把评分转换为 (pairs, targets)，供 model.TrainSet 使用。
func TrainPairs(ratings []Rating) ([]core.Pair, []float64) {
	pairs := make([]core.Pair, len(ratings))
	targets := make([]float64, len(ratings))
	for i, r := range ratings {
		pairs[i] = core.Pair{User: r.UserID, Movie: r.MovieID}
		targets[i] = r.Rating
	}
	return pairs, targets
}

// Users 返回评分中出现过的用户，按首次出现顺序。
func Users(ratings []Rating) []core.EntityID {
	return distinct(ratings, func(r Rating) core.EntityID { return r.UserID })
}

// Movies 返回评分中出现过的电影，按首次出现顺序。
func Movies(ratings []Rating) []core.EntityID {
	return distinct(ratings, func(r Rating) core.EntityID { return r.MovieID })
}

func distinct[T any](rows []T, key func(T) core.EntityID) []core.EntityID {
	seen := make(map[core.EntityID]struct{})
	out := make([]core.EntityID, 0)
	for _, row := range rows {
		id := key(row)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
