package constants

// --- СТАТУСЫ ЗАЯВОК (Совпадает со значениями в БД) ---
const (
	StatusCreated    = "created"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// --- ПРИОРИТЕТЫ ---
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var OrderStatuses = []string{StatusCreated, StatusInProgress, StatusCompleted}

var OrderPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Разрешённые переходы жизненного цикла. Всё, чего здесь нет, запрещено.
var allowedTransitions = map[string]string{
	StatusCreated:    StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// Финальные статусы: из них переходов нет.
var FinalStatuses = []string{
	StatusCompleted,
}

func IsValidStatus(code string) bool {
	for _, s := range OrderStatuses {
		if s == code {
			return true
		}
	}
	return false
}

func IsValidPriority(code string) bool {
	for _, p := range OrderPriorities {
		if p == code {
			return true
		}
	}
	return false
}

func IsFinalStatus(code string) bool {
	for _, s := range FinalStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// CanTransition сообщает, разрешён ли переход from -> to.
// Переход в тот же статус сюда не попадает: он отсекается раньше
// как ошибка валидации, а не конфликт.
func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	return ok && next == to
}
