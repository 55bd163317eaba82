// maisagenda/internal/reminder/engine.go

// Пакет reminder содержит движок напоминаний для экрана планирования.
// Всё состояние (dismissed/snoozed/toasted/active) живёт только в памяти
// одной сессии: при закрытии сессии оно теряется, это сознательное решение.
package reminder

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"maisagenda/models"
)

const (
	// CheckInterval - период планового пересчёта активных напоминаний.
	CheckInterval = 60 * time.Second
	// ToastDuration - время жизни одного всплывающего уведомления.
	ToastDuration = 8 * time.Second
	// SnoozeDuration - на сколько откладывается напоминание по кнопке "позже".
	SnoozeDuration = 10 * time.Minute
)

// Active - одно активное напоминание из списка на экране планирования.
type Active struct {
	EventID      uint      `json:"event_id"`
	Title        string    `json:"title"`
	StartTime    time.Time `json:"start_time"`
	MinutesUntil int       `json:"minutes_until"`
	Location     string    `json:"location,omitempty"`
	Type         string    `json:"type"`
}

// Toast - одноразовое всплывающее уведомление. Показывается не более одного
// раза на событие за время жизни движка и само исчезает через ToastDuration.
type Toast struct {
	ID           string `json:"id"`
	EventID      uint   `json:"event_id"`
	Title        string `json:"title"`
	MinutesUntil int    `json:"minutes_until"`
}

// Sink получает результаты работы движка. Реализуется websocket-сессией.
type Sink interface {
	ActiveChanged(active []Active)
	ToastShown(toast Toast)
	ToastExpired(toastID string)
}

// Provider отдаёт текущий набор событий пользователя для очередной проверки.
type Provider func() []models.CalendarEvent

type pendingToast struct {
	id    string
	timer *time.Timer
}

// Engine владеет состоянием напоминаний одной сессии планирования.
// Жизненный цикл явный: New -> Start -> ... -> Stop. Stop отменяет плановый
// тикер и все таймеры всплывающих уведомлений, после него Sink не вызывается.
type Engine struct {
	mu sync.Mutex

	provider Provider
	sink     Sink

	interval      time.Duration
	toastDuration time.Duration
	snooze        time.Duration

	dismissed     map[uint]struct{}
	snoozedUntil  map[uint]time.Time
	toasted       map[uint]struct{}
	active        []Active
	pendingToasts map[uint]*pendingToast

	stopCh  chan struct{}
	stopped bool
	started bool
}

func NewEngine(provider Provider, sink Sink) *Engine {
	return &Engine{
		provider:      provider,
		sink:          sink,
		interval:      CheckInterval,
		toastDuration: ToastDuration,
		snooze:        SnoozeDuration,
		dismissed:     make(map[uint]struct{}),
		snoozedUntil:  make(map[uint]time.Time),
		toasted:       make(map[uint]struct{}),
		pendingToasts: make(map[uint]*pendingToast),
		stopCh:        make(chan struct{}),
	}
}

// Start запускает плановую проверку раз в interval и сразу выполняет первую.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.mu.Unlock()

	e.Refresh()

	go func() {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.Refresh()
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop останавливает тикер и отменяет все незавершённые таймеры уведомлений.
// После Stop движок больше не трогает Sink.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.stopped = true
	close(e.stopCh)
	for _, pt := range e.pendingToasts {
		pt.timer.Stop()
	}
	e.pendingToasts = make(map[uint]*pendingToast)
}

// Refresh немедленно пересчитывает напоминания по текущему набору событий.
// Вызывается тикером и обработчиками сохранения/удаления событий.
func (e *Engine) Refresh() {
	if e.provider == nil {
		return
	}
	e.Check(e.provider(), time.Now())
}

// Check решает, какие события попадают в окно напоминания на момент now,
// и полностью заменяет список активных (порядок следует порядку событий).
// Событие без времени начала просто исключается из рассмотрения.
func (e *Engine) Check(events []models.CalendarEvent, now time.Time) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}

	newActive := make([]Active, 0, len(events))
	var newToasts []Toast

	for _, ev := range events {
		if ev.ReminderMinutes <= 0 || ev.StartTime.IsZero() {
			continue
		}

		minutesUntil := int(ev.StartTime.Sub(now).Minutes())
		// Начавшиеся и прошедшие события повторно не взводятся
		if minutesUntil <= 0 || minutesUntil > ev.ReminderMinutes {
			continue
		}
		if _, ok := e.dismissed[ev.ID]; ok {
			continue
		}
		if until, ok := e.snoozedUntil[ev.ID]; ok && until.After(now) {
			continue
		}

		newActive = append(newActive, Active{
			EventID:      ev.ID,
			Title:        ev.Title,
			StartTime:    ev.StartTime,
			MinutesUntil: minutesUntil,
			Location:     ev.Location,
			Type:         ev.Type,
		})

		// Всплывающее уведомление - не более одного на событие за сессию
		if _, ok := e.toasted[ev.ID]; !ok {
			e.toasted[ev.ID] = struct{}{}
			toast := Toast{
				ID:           uuid.NewString(),
				EventID:      ev.ID,
				Title:        ev.Title,
				MinutesUntil: minutesUntil,
			}
			e.scheduleToastExpiry(ev.ID, toast.ID)
			newToasts = append(newToasts, toast)
		}
	}

	e.active = newActive
	sink := e.sink
	e.mu.Unlock()

	if sink == nil {
		return
	}
	sink.ActiveChanged(newActive)
	for _, t := range newToasts {
		sink.ToastShown(t)
	}
}

// scheduleToastExpiry взводит одноразовый таймер самоудаления уведомления.
// Вызывается под e.mu.
func (e *Engine) scheduleToastExpiry(eventID uint, toastID string) {
	pt := &pendingToast{id: toastID}
	pt.timer = time.AfterFunc(e.toastDuration, func() {
		e.mu.Lock()
		if e.stopped || e.pendingToasts[eventID] != pt {
			e.mu.Unlock()
			return
		}
		delete(e.pendingToasts, eventID)
		sink := e.sink
		e.mu.Unlock()
		if sink != nil {
			sink.ToastExpired(toastID)
		}
	})
	e.pendingToasts[eventID] = pt
}

// Dismiss навсегда (в рамках сессии) скрывает напоминание события.
func (e *Engine) Dismiss(eventID uint) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.dismissed[eventID] = struct{}{}
	e.removeLocked(eventID)
	active := e.active
	sink := e.sink
	e.mu.Unlock()

	if sink != nil {
		sink.ActiveChanged(active)
	}
}

// Snooze откладывает напоминание на SnoozeDuration от момента now. После
// истечения интервала событие снова становится кандидатом при следующей
// проверке, если его окно всё ещё открыто.
func (e *Engine) Snooze(eventID uint, now time.Time) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.snoozedUntil[eventID] = now.Add(e.snooze)
	e.removeLocked(eventID)
	active := e.active
	sink := e.sink
	e.mu.Unlock()

	if sink != nil {
		sink.ActiveChanged(active)
	}
}

// Active возвращает текущий список активных напоминаний.
func (e *Engine) Active() []Active {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Active, len(e.active))
	copy(out, e.active)
	return out
}

// removeLocked убирает событие из активных и гасит его уведомление, если оно
// ещё показывается. Вызывается под e.mu.
func (e *Engine) removeLocked(eventID uint) {
	filtered := make([]Active, 0, len(e.active))
	for _, a := range e.active {
		if a.EventID != eventID {
			filtered = append(filtered, a)
		}
	}
	e.active = filtered

	if pt, ok := e.pendingToasts[eventID]; ok {
		pt.timer.Stop()
		delete(e.pendingToasts, eventID)
		if e.sink != nil {
			// Уведомление гаснет сразу, не дожидаясь таймера
			go e.sink.ToastExpired(pt.id)
		}
	}
}
