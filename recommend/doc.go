// Package recommend 实现分批 TopK 推荐：
// 在不透明的打分函数（core.Scorer）之上，为每个源实体生成定长的 TopK 目标矩阵。
//
// 流程（每批最多 BatchSize 个源实体，批与批严格串行）：
//
//	构造 pair（源批次 × 全部目标）→ Scorer.Predict → 按源实体分组排序截断 → 写入子矩阵 → 按行拼接
//
// 排序规则：分数降序；分数相同时先出现在笛卡尔积中的 pair 排名更靠前；
// 缺失分数（NaN / ±Inf）不占排名。结果矩阵的行数恒等于源实体个数，
// 不足 maxsize 的尾部单元格为无效值（Optional.Valid == false）。
package recommend
