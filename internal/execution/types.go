package execution

import "math"

// quantityTolerance 对比请求量与成交量时允许的浮点误差。
const quantityTolerance = 1e-8

// CreationStatus 汇总一次提交批次的数量统计。
type CreationStatus struct {
	RequestedBaseQuantity float64
	ActualBaseQuantity    float64
}

// Add 合并两份统计。
func (s CreationStatus) Add(other CreationStatus) CreationStatus {
	return CreationStatus{
		RequestedBaseQuantity: s.RequestedBaseQuantity + other.RequestedBaseQuantity,
		ActualBaseQuantity:    s.ActualBaseQuantity + other.ActualBaseQuantity,
	}
}

// OK 报告实际提交量是否与请求量一致。
func (s CreationStatus) OK() bool {
	return math.Abs(s.RequestedBaseQuantity-s.ActualBaseQuantity) <= quantityTolerance
}

// submitState 表示单笔订单在提交状态机中的位置。
type submitState int

const (
	stateAttempting submitState = iota
	stateSucceeded
	stateDuplicate
	stateGaveUp
)

func (s submitState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateSucceeded:
		return "succeeded"
	case stateDuplicate:
		return "duplicate"
	case stateGaveUp:
		return "gave_up"
	default:
		return "unknown"
	}
}
