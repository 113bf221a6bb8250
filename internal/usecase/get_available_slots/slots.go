package get_available_slots

import (
	"sort"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
)

// generateStaffSlots генерирует доступные слоты одного мастера на дату.
// Кандидаты идут с фиксированным шагом domain.SlotStepMinutes от начала
// каждого рабочего интервала; длительность кандидата равна длительности
// услуги. Кандидат попадает в результат, если целиком помещается в
// рабочий интервал и не пересекается ни с одной занятой строкой.
// Курсор всегда двигается на шаг, независимо от результата проверки:
// длинная услуга даёт перекрывающиеся соседние кандидаты, это
// гранулярность записи.
func generateStaffSlots(
	staff *domain.StaffMember,
	schedules []domain.WorkingSchedule,
	busy []domain.AppointmentService,
	serviceDuration time.Duration,
	date time.Time,
	now time.Time,
) []domain.Slot {
	slots := make([]domain.Slot, 0)

	for i := range schedules {
		intervalStart, err := schedules[i].StartTime.At(date)
		if err != nil {
			continue
		}
		intervalEnd, err := schedules[i].EndTime.At(date)
		if err != nil {
			continue
		}

		for cursor := intervalStart; ; cursor = cursor.Add(domain.SlotStepMinutes * time.Minute) {
			candidateEnd := cursor.Add(serviceDuration)
			if candidateEnd.After(intervalEnd) {
				break
			}

			// Сегодняшние слоты, начинающиеся в прошлом, не предлагаются
			if cursor.Before(now) {
				continue
			}

			if hasOverlap(busy, cursor, candidateEnd) {
				continue
			}

			slots = append(slots, domain.Slot{
				StaffID:   staff.ID,
				StaffName: staff.DisplayName,
				StartTime: cursor,
				EndTime:   candidateEnd,
			})
		}
	}

	return slots
}

// hasOverlap проверяет пересечение кандидата с занятыми интервалами.
// Граничные случаи (конец одного равен началу другого) пересечением
// не считаются.
func hasOverlap(busy []domain.AppointmentService, start, end time.Time) bool {
	for i := range busy {
		if domain.Overlaps(start, end, busy[i].StartTime, busy[i].EndTime) {
			return true
		}
	}
	return false
}

// sortSlots упорядочивает слоты нескольких мастеров: сначала по времени
// начала, при равенстве — по имени мастера
func sortSlots(slots []domain.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].StaffName < slots[j].StaffName
	})
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
