package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），包装过的错误（fmt.Errorf %w）同样可以识别
//
// 使用场景：
//   - Recommend 错误：INVALID_INPUT（方向、maxsize 非法）、INTERNAL_ERROR（批次累积行数不一致）
//   - Model 错误：NOT_SUPPORTED、NOT_FITTED
//   - Store 错误：NOT_FOUND
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recommend", "model"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误链中是否包含 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeNotFitted     = "NOT_FITTED"     // 模型尚未训练/加载
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效（调用方编程错误，不可重试）
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误（实现缺陷）
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleFeature   = "feature"
	ModuleModel     = "model"
	ModuleRecommend = "recommend"
	ModuleDataset   = "dataset"
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsInternal 检查错误是否为 INTERNAL_ERROR
func IsInternal(err error) bool { return hasCode(err, ErrorCodeInternalError) }

// Recommend 错误
var (
	// ErrInvalidRequest 表示请求为空
	ErrInvalidRequest = NewDomainError(ModuleRecommend, ErrorCodeInvalidInput, "recommend: nil request")

	// ErrInvalidDirection 表示推荐方向既不是 movie 也不是 user
	ErrInvalidDirection = NewDomainError(ModuleRecommend, ErrorCodeInvalidInput, "recommend: wrong direction, want \"movie\" or \"user\"")

	// ErrInvalidMaxSize 表示 maxsize 为负数
	ErrInvalidMaxSize = NewDomainError(ModuleRecommend, ErrorCodeInvalidInput, "recommend: maxsize must be positive or unset")

	// ErrInvalidBatchSize 表示批大小不是正数
	ErrInvalidBatchSize = NewDomainError(ModuleRecommend, ErrorCodeInvalidInput, "recommend: batch size must be positive")

	// ErrRowCountMismatch 表示批次累积后的行数与源实体数不一致（批处理逻辑缺陷）
	ErrRowCountMismatch = NewDomainError(ModuleRecommend, ErrorCodeInternalError, "recommend: accumulated row count does not match source count")

	// ErrShapeMismatch 表示拼接的子矩阵列数不一致
	ErrShapeMismatch = NewDomainError(ModuleRecommend, ErrorCodeInternalError, "recommend: matrix column count mismatch")

	// ErrScoreCountMismatch 表示打分函数返回的分数个数与 pair 个数不一致
	ErrScoreCountMismatch = NewDomainError(ModuleRecommend, ErrorCodeInternalError, "recommend: scorer returned wrong number of scores")
)

// Model 错误
var (
	ErrModelNotSupported = NewDomainError(ModuleModel, ErrorCodeNotSupported, "model: operation not supported")
	ErrModelNotFitted    = NewDomainError(ModuleModel, ErrorCodeNotFitted, "model: not fitted")
	ErrUnknownModel      = NewDomainError(ModuleModel, ErrorCodeNotFound, "model: unknown model name")
	ErrInvalidTrainSet   = NewDomainError(ModuleModel, ErrorCodeInvalidInput, "model: pairs and targets length mismatch")
)
