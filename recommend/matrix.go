package recommend

import (
	"fmt"

	"github.com/rushteam/movierec/core"
)

// Matrix 是行优先的稠密矩阵，每个单元格带有效位。
type Matrix[T any] struct {
	rows, cols int
	cells      []core.Optional[T]
}

// NewMatrix 创建 rows × cols 的矩阵，所有单元格初始为无效。
func NewMatrix[T any](rows, cols int) *Matrix[T] {
	return &Matrix[T]{
		rows:  rows,
		cols:  cols,
		cells: make([]core.Optional[T], rows*cols),
	}
}

func (m *Matrix[T]) Rows() int { return m.rows }
func (m *Matrix[T]) Cols() int { return m.cols }

// At 返回 (i, j) 单元格。
func (m *Matrix[T]) At(i, j int) core.Optional[T] {
	return m.cells[i*m.cols+j]
}

// Set 写入 (i, j) 单元格并标记为有效。
func (m *Matrix[T]) Set(i, j int, v T) {
	m.cells[i*m.cols+j] = core.Some(v)
}

// Row 返回第 i 行（与矩阵共享底层存储，调用方不应修改）。
func (m *Matrix[T]) Row(i int) []core.Optional[T] {
	return m.cells[i*m.cols : (i+1)*m.cols]
}

// AppendRows 把 o 的所有行拼接到 m 的末尾（vstack）。
func (m *Matrix[T]) AppendRows(o *Matrix[T]) error {
	if o.cols != m.cols {
		return fmt.Errorf("append %d-column rows to %d-column matrix: %w", o.cols, m.cols, core.ErrShapeMismatch)
	}
	m.cells = append(m.cells, o.cells...)
	m.rows += o.rows
	return nil
}

// Values 以二维切片形式返回全部单元格（拷贝）。
func (m *Matrix[T]) Values() [][]core.Optional[T] {
	out := make([][]core.Optional[T], m.rows)
	for i := range out {
		out[i] = append([]core.Optional[T](nil), m.Row(i)...)
	}
	return out
}

// Result 是一次 Recommend 调用的输出：两个平行矩阵。
// 第 i 行对应 Sources[i]，第 j 列是排名第 j+1 的目标。
type Result struct {
	Direction core.Direction
	Sources   []core.EntityID
	Items     *Matrix[core.EntityID]
	Scores    *Matrix[float64]
}

// Recommendation 是一条有效推荐。
type Recommendation struct {
	ID    core.EntityID `json:"id"`
	Score float64       `json:"score"`
}

// Rows 返回行数（等于源实体个数）。
func (r *Result) Rows() int { return r.Items.Rows() }

// Recommendations 返回第 i 行的有效推荐（无效单元格只会出现在行尾）。
func (r *Result) Recommendations(i int) []Recommendation {
	items, scores := r.Items.Row(i), r.Scores.Row(i)
	out := make([]Recommendation, 0, len(items))
	for j, it := range items {
		if !it.Valid {
			break
		}
		out = append(out, Recommendation{ID: it.V, Score: scores[j].V})
	}
	return out
}
