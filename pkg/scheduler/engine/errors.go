// Package engine 实现排班问题的元启发式搜索引擎：迭代局部搜索（ILS）与
// 模因算法（Memetic Algorithm）的种群/迭代控制、基于交换的邻域探索、
// 构造/交叉/扰动算子，以及带共享最优解池的多线程 worker。
package engine

import "github.com/paiban/paiban/pkg/errors"

// 引擎专属错误码，复用 pkg/errors 的 AppError 外壳，与其余代码库共享
// Code/HTTPStatus/Fields 形状。
const (
	CodeInvalidArgument errors.Code = "ENGINE_INVALID_ARGUMENT"
	CodeIllegalState    errors.Code = "ENGINE_ILLEGAL_STATE"
	CodeNoSuchNeighbor  errors.Code = "ENGINE_NO_SUCH_NEIGHBOR"
)

// InvalidArgument 创建参数校验错误（构造/初始化时的越界或空值）。
func InvalidArgument(field, reason string) *errors.AppError {
	return errors.New(CodeInvalidArgument, field+": "+reason)
}

// IllegalState 创建状态错误（在 init 之前推进算子）。
func IllegalState(reason string) *errors.AppError {
	return errors.New(CodeIllegalState, reason)
}

// NoSuchNeighbor 创建“枚举尚未产生候选”错误。
func NoSuchNeighbor(reason string) *errors.AppError {
	return errors.New(CodeNoSuchNeighbor, reason)
}

// NoFeasibleSolution 复用 pkg/errors 中已有的无可行解错误码。
func NoFeasibleSolution(reason string) *errors.AppError {
	return errors.NoFeasibleSolution(reason)
}
