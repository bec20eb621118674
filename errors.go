package luckbook

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 系统级错误 (1000-1999)
	ErrCodeRedisConnection ErrorCode = "LUCKBOOK_1001"
	ErrCodeRedisTimeout    ErrorCode = "LUCKBOOK_1002"
	ErrCodeConfigInvalid   ErrorCode = "LUCKBOOK_1004"
	ErrCodeRandomSource    ErrorCode = "LUCKBOOK_1006"

	// 业务级错误 (2000-2999)
	ErrCodeInvalidParameters       ErrorCode = "LUCKBOOK_2000"
	ErrCodeInvalidRange            ErrorCode = "LUCKBOOK_2001"
	ErrCodeInvalidCount            ErrorCode = "LUCKBOOK_2002"
	ErrCodeUnknownVariant          ErrorCode = "LUCKBOOK_2003"
	ErrCodeInvalidNumbers          ErrorCode = "LUCKBOOK_2004"
	ErrCodePartialGeneration       ErrorCode = "LUCKBOOK_2005"
	ErrCodeInvalidRetryBudget      ErrorCode = "LUCKBOOK_2006"
	ErrCodeInvalidPeriod           ErrorCode = "LUCKBOOK_2007"
	ErrCodeInvalidPaymentMethod    ErrorCode = "LUCKBOOK_2008"
	ErrCodeInvalidStatus           ErrorCode = "LUCKBOOK_2009"
	ErrCodeInvalidStatusTransition ErrorCode = "LUCKBOOK_2010"
	ErrCodeMissingRequiredField    ErrorCode = "LUCKBOOK_2011"
	ErrCodeNegativeAmount          ErrorCode = "LUCKBOOK_2012"
	ErrCodeInvalidRetryAttempts    ErrorCode = "LUCKBOOK_2013"
	ErrCodeInvalidRetryInterval    ErrorCode = "LUCKBOOK_2014"
	ErrCodeInvalidLeadTime         ErrorCode = "LUCKBOOK_2015"

	// 限流相关错误 (5000-5999)
	ErrCodeCircuitBreakerOpen ErrorCode = "LUCKBOOK_5002"

	// 存储相关错误 (6000-6999)
	ErrCodeRecordNotFound        ErrorCode = "LUCKBOOK_6000"
	ErrCodeStoreSaveFailure      ErrorCode = "LUCKBOOK_6001"
	ErrCodeStoreLoadFailure      ErrorCode = "LUCKBOOK_6002"
	ErrCodeStoreCorrupted        ErrorCode = "LUCKBOOK_6003"
	ErrCodeSerializationFailed   ErrorCode = "LUCKBOOK_6004"
	ErrCodeDeserializationFailed ErrorCode = "LUCKBOOK_6005"
)

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityMedium   ErrorSeverity = "medium"
)

// Error is the typed error returned by every luckbook operation
type Error struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	Severity   ErrorSeverity  `json:"severity"`
	Timestamp  time.Time      `json:"timestamp"`
	Operation  string         `json:"operation,omitempty"`
	StackTrace string         `json:"stack_trace,omitempty"`
	Cause      error          `json:"-"`
	Retryable  bool           `json:"retryable"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so a decorated copy still matches its sentinel
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// clone copies the error so the predeclared sentinels are never mutated
func (e *Error) clone() *Error {
	c := *e
	c.Timestamp = time.Now()
	if e.Metadata != nil {
		c.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// WithCause returns a copy carrying the underlying cause
func (e *Error) WithCause(cause error) *Error {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithDetails returns a copy carrying extra details
func (e *Error) WithDetails(details string) *Error {
	c := e.clone()
	c.Details = details
	return c
}

// WithDetailsf 格式化详细信息
func (e *Error) WithDetailsf(format string, args ...any) *Error {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithOperation 添加操作信息
func (e *Error) WithOperation(operation string) *Error {
	c := e.clone()
	c.Operation = operation
	return c
}

// WithMetadata 添加元数据
func (e *Error) WithMetadata(key string, value any) *Error {
	c := e.clone()
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	return c
}

// WithStackTrace 添加堆栈跟踪
func (e *Error) WithStackTrace() *Error {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	e.StackTrace = string(buf[:n])
	return e
}

// NewError 创建新的错误
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: false,
	}
}

// NewRetryableError 创建可重试的错误
func NewRetryableError(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: true,
	}
}

// NewCriticalError 创建严重错误
func NewCriticalError(code ErrorCode, message string) *Error {
	err := &Error{
		Code:      code,
		Message:   message,
		Severity:  SeverityCritical,
		Timestamp: time.Now(),
		Retryable: false,
	}
	return err.WithStackTrace()
}

// 预定义的错误实例
var (
	// 系统级错误
	ErrRedisConnectionFailed = NewRetryableError(ErrCodeRedisConnection, "Redis connection failed")
	ErrRedisTimeout          = NewRetryableError(ErrCodeRedisTimeout, "Redis operation timeout")
	ErrConfigInvalid         = NewCriticalError(ErrCodeConfigInvalid, "configuration is invalid")
	ErrRandomSource          = NewRetryableError(ErrCodeRandomSource, "random source failed")

	// 业务级错误
	ErrInvalidParameters       = NewError(ErrCodeInvalidParameters, "invalid parameters provided")
	ErrInvalidRange            = NewError(ErrCodeInvalidRange, "invalid range: min must be less than or equal to max")
	ErrInvalidCount            = NewError(ErrCodeInvalidCount, "invalid count: not allowed for this variant")
	ErrUnknownVariant          = NewError(ErrCodeUnknownVariant, "unknown lottery variant")
	ErrInvalidNumbers          = NewError(ErrCodeInvalidNumbers, "numbers do not form a valid set for this variant")
	ErrPartialGeneration       = NewError(ErrCodePartialGeneration, "partial generation: attempt cap reached before all distinct sets were produced")
	ErrInvalidRetryBudget      = NewError(ErrCodeInvalidRetryBudget, "invalid retry budget: must be between 1 and 100000")
	ErrInvalidPeriod           = NewError(ErrCodeInvalidPeriod, "invalid report period")
	ErrInvalidPaymentMethod    = NewError(ErrCodeInvalidPaymentMethod, "invalid payment method")
	ErrInvalidStatus           = NewError(ErrCodeInvalidStatus, "invalid appointment status")
	ErrInvalidStatusTransition = NewError(ErrCodeInvalidStatusTransition, "invalid status transition: only upcoming appointments can be completed")
	ErrMissingRequiredField    = NewError(ErrCodeMissingRequiredField, "missing required field")
	ErrNegativeAmount          = NewError(ErrCodeNegativeAmount, "amount cannot be negative")
	ErrInvalidRetryAttempts    = NewError(ErrCodeInvalidRetryAttempts, "invalid retry attempts: must be between 0 and 10")
	ErrInvalidRetryInterval    = NewError(ErrCodeInvalidRetryInterval, "invalid retry interval: cannot be negative")
	ErrInvalidLeadTime         = NewError(ErrCodeInvalidLeadTime, "invalid reminder lead time: must be between 0 and 7 days")

	// 限流相关错误
	ErrCircuitBreakerOpen = NewRetryableError(ErrCodeCircuitBreakerOpen, "circuit breaker is open")

	// 存储相关错误
	ErrRecordNotFound        = NewError(ErrCodeRecordNotFound, "record not found")
	ErrStoreSaveFailure      = NewRetryableError(ErrCodeStoreSaveFailure, "failed to save collection")
	ErrStoreLoadFailure      = NewRetryableError(ErrCodeStoreLoadFailure, "failed to load collection")
	ErrStoreCorrupted        = NewError(ErrCodeStoreCorrupted, "stored collection is corrupted")
	ErrSerializationFailed   = NewError(ErrCodeSerializationFailed, "serialization failed")
	ErrDeserializationFailed = NewError(ErrCodeDeserializationFailed, "deserialization failed")
)

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"network is unreachable",
	"temporary failure",
	"server closed",
	"broken pipe",
	"i/o timeout",
	"dial tcp",
	"read tcp",
	"write tcp",
	"connection timed out",
	"no route to host",
	"host is down",
	"connection aborted",
	"socket is not connected",
	"operation timed out",
	"redis: connection pool timeout",
	"redis: client is closed",
	"context deadline exceeded",
}

// IsRetryableError 检查是否为可重试错误
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(*Error); ok && e.Retryable {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
