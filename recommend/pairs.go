package recommend

import "github.com/rushteam/movierec/core"

// buildPairs 构造 sources × targets 的完整笛卡尔积，每个组合恰好一次。
// 目标实体为外层循环、源实体为内层循环；rows[k] 记录 pairs[k] 的源实体在本批中的行号。
// pair 始终是 (user, movie)，与方向无关。
func buildPairs(dir core.Direction, sources, targets []core.EntityID) (pairs []core.Pair, rows []int) {
	n := len(sources) * len(targets)
	pairs = make([]core.Pair, 0, n)
	rows = make([]int, 0, n)
	for _, t := range targets {
		for row, s := range sources {
			if dir == core.DirectionMovie {
				pairs = append(pairs, core.Pair{User: s, Movie: t})
			} else {
				pairs = append(pairs, core.Pair{User: t, Movie: s})
			}
			rows = append(rows, row)
		}
	}
	return pairs, rows
}

// targetOf 返回 pair 中的目标实体。
func targetOf(dir core.Direction, p core.Pair) core.EntityID {
	if dir == core.DirectionMovie {
		return p.Movie
	}
	return p.User
}
