// Package model 定义排班引擎的核心数据模型
package model

import "time"

// Contract 员工合同，供排班引擎按索引访问（与 EmployeeContract 的字段含义一致，
// 但以稳定切片而非 map 暴露，便于引擎按 contractIndex 取用）。
type Contract struct {
	EmployeeID         int // index into Problem.employees(), not a database id
	ContractType       string
	MinHoursPerWeek    int
	MaxHoursPerWeek    int
	MaxHoursPerDay     int
	MaxConsecutiveDays int
	RestDaysPerWeek    int
}

// SchedulingPeriod 连续排班周期，索引 0 为周期第一天。
type SchedulingPeriod struct {
	start time.Time
	size  int
}

// NewSchedulingPeriod 基于起止日期（YYYY-MM-DD）构造周期。
func NewSchedulingPeriod(startDate, endDate string) (SchedulingPeriod, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return SchedulingPeriod{}, err
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return SchedulingPeriod{}, err
	}
	size := int(end.Sub(start).Hours()/24) + 1
	if size < 1 {
		size = 1
	}
	return SchedulingPeriod{start: start, size: size}, nil
}

// Size 返回周期天数。
func (p SchedulingPeriod) Size() int { return p.size }

// DayOfWeek 返回周期内第 i 天对应的星期。
func (p SchedulingPeriod) DayOfWeek(i int) time.Weekday {
	return p.start.AddDate(0, 0, i).Weekday()
}

// Date 返回周期内第 i 天对应的日期（YYYY-MM-DD）。
func (p SchedulingPeriod) Date(i int) string {
	return p.start.AddDate(0, 0, i).Format("2006-01-02")
}
