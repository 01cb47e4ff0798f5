package core

// FeatureTable 是用户或电影的辅助特征表：entity id -> 特征名 -> 值。
// 对推荐核心而言是不透明的，原样透传给打分函数。
type FeatureTable map[EntityID]map[string]float64

// Row 返回某个实体的特征行。
func (t FeatureTable) Row(id EntityID) (map[string]float64, bool) {
	if t == nil {
		return nil, false
	}
	row, ok := t[id]
	return row, ok
}
