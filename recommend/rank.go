package recommend

import (
	"sort"

	"github.com/rushteam/movierec/core"
)

type scored struct {
	target core.EntityID
	score  float64
}

// rankBatch 按源实体分组，组内按分数降序排名（并列时先出现者优先），
// 保留前 maxsize 个写入 nSources × maxsize 的子矩阵；返回缺失分数的个数。
func rankBatch(
	dir core.Direction,
	pairs []core.Pair,
	rows []int,
	scores []float64,
	nSources, maxsize int,
) (*Matrix[core.EntityID], *Matrix[float64], int) {
	items := NewMatrix[core.EntityID](nSources, maxsize)
	values := NewMatrix[float64](nSources, maxsize)

	missing := 0
	groups := make([][]scored, nSources)
	for k, p := range pairs {
		if core.IsMissing(scores[k]) {
			missing++
			continue
		}
		row := rows[k]
		groups[row] = append(groups[row], scored{target: targetOf(dir, p), score: scores[k]})
	}

	for row, g := range groups {
		// 稳定排序保证并列分数保持笛卡尔积中的先后顺序
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].score > g[j].score
		})
		for rank := 0; rank < len(g) && rank < maxsize; rank++ {
			items.Set(row, rank, g[rank].target)
			values.Set(row, rank, g[rank].score)
		}
	}
	return items, values, missing
}
