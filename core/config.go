package core

// DefaultBatchSize 是每批处理的源实体个数。
// 分批是为了限制峰值内存：不一次性物化完整的 (source × target) 笛卡尔积。
const DefaultBatchSize = 100
