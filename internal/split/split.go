package split

import (
	"errors"
	"fmt"
	"math/rand"
)

// Quantity 将整数总量拆分为 parts 份，并在各切点附近加入随机扰动。
// total 以最小数量步长的整数倍计量；diff 限制每份相对平均份额的偏移，
// 内部会收紧为不超过平均份额一半的偶数。随机源由调用方注入。
func Quantity(total int64, parts int, diff int64, rng *rand.Rand) ([]int64, error) {
	if rng == nil {
		return nil, errors.New("split: 随机源不能为空")
	}
	if parts <= 0 {
		return nil, fmt.Errorf("split: 份数必须为正: %d", parts)
	}
	if total <= 0 {
		return nil, fmt.Errorf("split: 总量必须为正: %d", total)
	}
	if diff < 0 {
		return nil, fmt.Errorf("split: 扰动量不能为负: %d", diff)
	}
	if total < int64(parts) {
		return nil, fmt.Errorf("split: 总量 %d 不足以拆成 %d 份", total, parts)
	}

	step := float64(total) / float64(parts)
	if half := int64(step / 2); diff > half {
		diff = half
	}
	if diff%2 == 1 {
		diff--
	}

	// 切点序列以 0 开头、total 结尾，相邻差即为各份数量。
	cuts := make([]int64, 0, parts+1)
	cuts = append(cuts, 0)
	for i := 1; i < parts; i++ {
		lo := int64(step*float64(i) - float64(diff)/2)
		hi := int64(step*float64(i) + float64(diff)/2)
		cuts = append(cuts, lo+rng.Int63n(hi-lo+1))
	}
	cuts = append(cuts, total)

	quantities := make([]int64, parts)
	for i := range quantities {
		quantities[i] = cuts[i+1] - cuts[i]
	}
	return quantities, nil
}
