package reminder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"maisagenda/models"
)

// recordingSink накапливает всё, что движок отправил сессии.
type recordingSink struct {
	mu      sync.Mutex
	active  [][]Active
	toasts  []Toast
	expired []string
}

func (s *recordingSink) ActiveChanged(active []Active) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]Active, len(active))
	copy(snapshot, active)
	s.active = append(s.active, snapshot)
}

func (s *recordingSink) ToastShown(toast Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, toast)
}

func (s *recordingSink) ToastExpired(toastID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = append(s.expired, toastID)
}

func (s *recordingSink) lastActive() []Active {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.active) == 0 {
		return nil
	}
	return s.active[len(s.active)-1]
}

func (s *recordingSink) toastCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.toasts)
}

func (s *recordingSink) expiredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expired)
}

func newTestEngine(sink Sink) *Engine {
	return NewEngine(nil, sink)
}

func event(id uint, title string, start time.Time, reminderMinutes int) models.CalendarEvent {
	ev := models.CalendarEvent{
		Title:           title,
		StartTime:       start,
		ReminderMinutes: reminderMinutes,
		Type:            models.EventTypePersonal,
	}
	ev.ID = id
	return ev
}

func TestCheckIgnoresEventsWithoutReminder(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.CalendarEvent{
		event(1, "Sem lembrete", now.Add(5*time.Minute), 0),
	}
	e.Check(events, now)

	require.Empty(t, sink.lastActive())
	require.Zero(t, sink.toastCount())
}

func TestCheckIncludesEventInsideWindow(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.CalendarEvent{
		event(1, "Reunião", now.Add(10*time.Minute), 15),
	}
	e.Check(events, now)

	active := sink.lastActive()
	require.Len(t, active, 1)
	require.Equal(t, uint(1), active[0].EventID)
	require.Equal(t, 10, active[0].MinutesUntil)
}

func TestCheckWindowBoundaries(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.CalendarEvent{
		// ровно на границе окна - входит
		event(1, "Na borda", now.Add(15*time.Minute), 15),
		// за пределами окна - не входит
		event(2, "Fora da janela", now.Add(16*time.Minute), 15),
		// меньше минуты до начала - не входит
		event(3, "Começando", now.Add(30*time.Second), 15),
		// уже началось - не входит
		event(4, "Passado", now.Add(-5*time.Minute), 15),
	}
	e.Check(events, now)

	active := sink.lastActive()
	require.Len(t, active, 1)
	require.Equal(t, uint(1), active[0].EventID)
}

func TestCheckSkipsEventWithoutStartTime(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.CalendarEvent{
		event(1, "Sem data", time.Time{}, 30),
		event(2, "Com data", now.Add(10*time.Minute), 30),
	}
	require.NotPanics(t, func() { e.Check(events, now) })

	active := sink.lastActive()
	require.Len(t, active, 1)
	require.Equal(t, uint(2), active[0].EventID)
}

func TestActiveListReplacedAndOrderPreserved(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.CalendarEvent{
		event(7, "Primeiro", now.Add(5*time.Minute), 30),
		event(3, "Segundo", now.Add(10*time.Minute), 30),
	}
	e.Check(events, now)

	active := sink.lastActive()
	require.Len(t, active, 2)
	require.Equal(t, uint(7), active[0].EventID)
	require.Equal(t, uint(3), active[1].EventID)

	// Следующая проверка полностью заменяет список
	e.Check(events[1:], now)
	active = sink.lastActive()
	require.Len(t, active, 1)
	require.Equal(t, uint(3), active[0].EventID)
}

func TestDismissIsPermanentForSession(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.CalendarEvent{
		event(1, "Reunião", now.Add(10*time.Minute), 30),
	}
	e.Check(events, now)
	require.Len(t, sink.lastActive(), 1)

	e.Dismiss(1)
	require.Empty(t, sink.lastActive())

	// Окно всё ещё открыто, но событие скрыто навсегда
	e.Check(events, now.Add(2*time.Minute))
	require.Empty(t, sink.lastActive())
	e.Check(events, now.Add(5*time.Minute))
	require.Empty(t, sink.lastActive())
}

func TestSnoozeSuppressesForTenMinutes(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.CalendarEvent{
		event(1, "Consulta", now.Add(25*time.Minute), 30),
	}
	e.Check(events, now)
	require.Len(t, sink.lastActive(), 1)

	e.Snooze(1, now)
	require.Empty(t, sink.lastActive())

	// Пока снуз активен - события нет
	e.Check(events, now.Add(5*time.Minute))
	require.Empty(t, sink.lastActive())
	e.Check(events, now.Add(9*time.Minute))
	require.Empty(t, sink.lastActive())

	// Интервал истёк, окно ещё открыто - событие возвращается
	e.Check(events, now.Add(10*time.Minute))
	require.Len(t, sink.lastActive(), 1)
}

func TestToastShownOncePerEvent(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	events := []models.CalendarEvent{
		event(1, "Reunião", now.Add(10*time.Minute), 30),
	}
	e.Check(events, now)
	require.Equal(t, 1, sink.toastCount())

	// Повторные проверки в том же окне новых уведомлений не дают
	e.Check(events, now.Add(1*time.Minute))
	e.Check(events, now.Add(2*time.Minute))
	require.Equal(t, 1, sink.toastCount())

	// Но событие продолжает висеть в активном списке
	require.Len(t, sink.lastActive(), 1)
}

func TestToastExpiresAfterDuration(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	e.toastDuration = 20 * time.Millisecond
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	e.Check([]models.CalendarEvent{
		event(1, "Reunião", now.Add(10*time.Minute), 30),
	}, now)
	require.Equal(t, 1, sink.toastCount())

	require.Eventually(t, func() bool {
		return sink.expiredCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDismissCancelsPendingToast(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	e.Check([]models.CalendarEvent{
		event(1, "Reunião", now.Add(10*time.Minute), 30),
	}, now)
	require.Equal(t, 1, sink.toastCount())

	e.Dismiss(1)

	// Уведомление гаснет сразу, не дожидаясь восьмисекундного таймера
	require.Eventually(t, func() bool {
		return sink.expiredCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestStopCancelsPendingToastTimers(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(sink)
	e.toastDuration = 20 * time.Millisecond
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	e.Check([]models.CalendarEvent{
		event(1, "Reunião", now.Add(10*time.Minute), 30),
	}, now)
	require.Equal(t, 1, sink.toastCount())

	e.Stop()
	time.Sleep(60 * time.Millisecond)

	// После Stop движок не трогает приёмник
	require.Zero(t, sink.expiredCount())

	// И игнорирует дальнейшие вызовы
	e.Check([]models.CalendarEvent{
		event(2, "Outro", now.Add(10*time.Minute), 30),
	}, now)
	require.Equal(t, 1, sink.toastCount())
}
