package engine

// SwapMove 表示在 [startDay, endDay] 的整个窗口内交换两名员工的分配。
// EndDay 是派生字段，由 StartDay+BlockSize-1 算出。
type SwapMove struct {
	Employee1Index int
	Employee2Index int
	StartDayIndex  int
	BlockSize      int
}

// EndDayIndex 返回窗口的最后一天。
func (m SwapMove) EndDayIndex() int { return m.StartDayIndex + m.BlockSize - 1 }

// ModifyAssignment 报告窗口内是否至少有一天两名员工的分配不同——
// 两边都空或两边相同的班次都不算改变。
func (m SwapMove) ModifyAssignment(s *Solution) bool {
	for d := m.StartDayIndex; d <= m.EndDayIndex(); d++ {
		a := s.assignments[d][m.Employee1Index]
		b := s.assignments[d][m.Employee2Index]
		if a != b {
			return true
		}
	}
	return false
}

// Apply 在窗口内就地交换两名员工的分配，使评估缓存失效。
func (m SwapMove) Apply(s *Solution) {
	for d := m.StartDayIndex; d <= m.EndDayIndex(); d++ {
		row := s.assignments[d]
		row[m.Employee1Index], row[m.Employee2Index] = row[m.Employee2Index], row[m.Employee1Index]
	}
	s.InvalidateEvaluation()
}

// Applied 返回应用了该移动的克隆，origin 本身保持不变。
func (m SwapMove) Applied(origin *Solution) *Solution {
	clone := origin.Clone()
	m.Apply(clone)
	return clone
}

// Revert 撤销一次 Apply；交换是对合（involution），再应用一次即可还原。
func (m SwapMove) Revert(s *Solution) { m.Apply(s) }

// unassignedSentinel 是 RemoveReplaceMove 中表示"未分配桶"的索引值。
const unassignedSentinel = -1

// RemoveReplaceMove 表示把某天某班次槽位从一个来源（员工或未分配桶）
// 移交给目标（员工或未分配桶）。来源/目标为 unassignedSentinel 时指未分配桶。
type RemoveReplaceMove struct {
	OriginEmployeeIndex int
	TargetEmployeeIndex int
	ShiftIndex          int
	DayIndex            int
}

// Apply 执行移除-替换：把来源上的该班次移除（或消耗未分配名额），
// 再把它赋给目标（或归还未分配名额）。
func (m RemoveReplaceMove) Apply(s *Solution) {
	if m.OriginEmployeeIndex == unassignedSentinel {
		s.ConsumeUnassigned(m.DayIndex, m.ShiftIndex)
	} else {
		s.assignments[m.DayIndex][m.OriginEmployeeIndex] = Unassigned
	}

	if m.TargetEmployeeIndex == unassignedSentinel {
		s.ReleaseUnassigned(m.DayIndex, m.ShiftIndex)
	} else {
		s.assignments[m.DayIndex][m.TargetEmployeeIndex] = m.ShiftIndex
	}
	s.InvalidateEvaluation()
}
