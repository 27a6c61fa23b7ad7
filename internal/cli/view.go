package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/rrule"
	"github.com/hray3182/melgar/internal/scheduler"
)

// Color constants for the melgar theme
const (
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorAccentMain    = "#7C3AED"
	ColorAccentBright  = "#A78BFA"
	ColorError         = "#EF4444"
	ColorSuccess       = "#22C55E"
	ColorWarning       = "#F59E0B"
)

// Heatmap shades, from no activity to busy.
var heatColors = []string{"#2D333B", "#0E4429", "#006D32", "#26A641", "#39D353"}

type view struct {
	w io.Writer

	title    lipgloss.Style
	label    lipgloss.Style
	muted    lipgloss.Style
	overdue  lipgloss.Style
	done     lipgloss.Style
	priority lipgloss.Style
	accent   lipgloss.Style
	heat     []lipgloss.Style
	today    lipgloss.Style
}

// newView styles output for w. Colors are dropped when w is not a terminal.
func newView(w io.Writer) *view {
	r := lipgloss.NewRenderer(w)
	v := &view{
		w:        w,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)),
		label:    r.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)),
		muted:    r.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)),
		overdue:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorError)),
		done:     r.NewStyle().Foreground(lipgloss.Color(ColorSuccess)),
		priority: r.NewStyle().Foreground(lipgloss.Color(ColorWarning)),
		accent:   r.NewStyle().Foreground(lipgloss.Color(ColorAccentMain)),
		today:    r.NewStyle().Underline(true).Foreground(lipgloss.Color(ColorPrimaryText)),
	}
	for _, c := range heatColors {
		v.heat = append(v.heat, r.NewStyle().Foreground(lipgloss.Color(c)))
	}
	return v
}

func (v *view) printf(format string, args ...any) {
	fmt.Fprintf(v.w, format, args...)
}

func (v *view) field(name, value string) {
	v.printf("%s %s\n", v.label.Render(name+":"), value)
}

func (v *view) taskLine(t *models.Task, today dates.Date) string {
	box := "[ ]"
	if t.Completed {
		box = v.done.Render("[x]")
	}

	parts := []string{fmt.Sprintf("#%-3d", t.ID), box, t.Description}
	if t.DueDate != nil {
		due := "due " + t.DueDate.Display()
		if t.IsOverdue(today) {
			due = v.overdue.Render(due + " OVERDUE")
		} else {
			due = v.muted.Render(due)
		}
		parts = append(parts, due)
	}
	if t.Priority {
		parts = append(parts, v.priority.Render("★ priority"))
	}
	return strings.Join(parts, "  ")
}

func (v *view) tasks(tasks []*models.Task, today dates.Date) {
	if len(tasks) == 0 {
		v.printf("No tasks. Use 'melgar task add \"description\"' to create one.\n")
		return
	}
	for _, t := range tasks {
		v.printf("%s\n", v.taskLine(t, today))
		if t.NextAction != "" && !t.Completed {
			v.printf("      %s %s\n", v.muted.Render("next:"), t.NextAction)
		}
	}
}

func (v *view) task(t *models.Task, actions []*models.Action, today dates.Date) {
	v.printf("%s\n", v.title.Render(fmt.Sprintf("Task #%d: %s", t.ID, t.Description)))
	v.field("Due Date", dates.DisplayOf(t.DueDate))
	status := t.Status()
	if t.IsOverdue(today) {
		status = v.overdue.Render(status + " (overdue)")
	}
	v.field("Status", status)
	if t.CompletionDate != nil {
		v.field("Completed", t.CompletionDate.Display())
	}
	if t.NextAction != "" {
		v.field("Next Action", t.NextAction)
	}
	if t.Priority {
		v.field("Priority", v.priority.Render("yes"))
	}
	if t.LastNotification != nil {
		v.field("Last Reminder", t.LastNotification.Display())
	}

	if len(actions) == 0 {
		v.printf("\n%s\n", v.muted.Render("No actions yet."))
		return
	}
	v.printf("\n%s\n", v.title.Render("History"))
	for _, a := range actions {
		v.printf("  %s  %s  %s\n", v.muted.Render(fmt.Sprintf("#%d", a.ID)), a.Date.Display(), a.Description)
	}
}

func (v *view) actions(actions []*models.Action) {
	if len(actions) == 0 {
		v.printf("%s\n", v.muted.Render("No actions left on this task."))
		return
	}
	for _, a := range actions {
		v.printf("  %s  %s  %s\n", v.muted.Render(fmt.Sprintf("#%d", a.ID)), a.Date.Display(), a.Description)
	}
}

func (v *view) goal(g *models.Goal) {
	v.printf("%s\n", v.title.Render(fmt.Sprintf("Goal #%d: %s", g.ID, g.Description)))
	v.field("Started", g.CreatedDate.Display())
	v.field("Target", dates.DisplayOf(g.TargetDate))
	if g.Completed {
		v.field("Completed", dates.DisplayOf(g.CompletionDate))
	}
}

func (v *view) notes(notes []*models.Note) {
	if len(notes) == 0 {
		v.printf("No notes yet.\n")
		return
	}
	for _, n := range notes {
		v.printf("#%-3d %s  %s  %s\n", n.ID, v.muted.Render(n.CreatedDate.Display()), v.accent.Render("["+n.Type+"]"), n.Title)
	}
}

func (v *view) note(n *models.Note) {
	v.printf("%s\n", v.title.Render(fmt.Sprintf("Note #%d: %s", n.ID, n.Title)))
	v.field("Type", n.Type)
	v.field("Created", n.CreatedDate.Display())
	v.printf("\n%s\n", n.Body)
}

func (v *view) habits(habits []*models.Habit) {
	if len(habits) == 0 {
		v.printf("No habits yet.\n")
		return
	}
	for _, h := range habits {
		v.printf("#%-3d %s  %s\n", h.ID, h.Description, v.muted.Render(rrule.HumanReadable(h.RecurrenceRule)+", from "+h.StartDate.Display()))
	}
}

// heatmap draws one column per day: weekday initial, a shaded cell, and the total.
func (v *view) heatmap(days []models.DaySummary) {
	if len(days) == 0 {
		return
	}
	v.printf("%s\n", v.title.Render(fmt.Sprintf("Activity %s - %s", days[0].Date.Display(), days[len(days)-1].Date.Display())))

	var initials, cells strings.Builder
	actions, completions := 0, 0
	for _, d := range days {
		initial := d.WeekdayInitial()
		if d.IsToday {
			initial = v.today.Render(initial)
		}
		initials.WriteString(initial + " ")
		cells.WriteString(v.heat[heatLevel(d.Total())].Render("■") + " ")
		actions += d.Actions
		completions += d.Completions
	}
	v.printf("%s\n%s\n", strings.TrimRight(initials.String(), " "), strings.TrimRight(cells.String(), " "))

	var legend strings.Builder
	for _, s := range v.heat {
		legend.WriteString(s.Render("■"))
	}
	v.printf("%s less %s more\n", v.muted.Render("actions "+fmt.Sprint(actions)+", completions "+fmt.Sprint(completions)+" |"), legend.String())
}

func heatLevel(total int) int {
	switch {
	case total <= 0:
		return 0
	case total <= 1:
		return 1
	case total <= 3:
		return 2
	case total <= 6:
		return 3
	default:
		return 4
	}
}

func (v *view) events(events []*models.Event, loc *time.Location) {
	if len(events) == 0 {
		v.printf("No events scheduled.\n")
		return
	}
	for _, e := range events {
		start := e.StartTime.In(loc)
		v.printf("%s %s  %s  %s\n",
			start.Format("02/01/2006"),
			v.accent.Render(start.Format("15:04")+"-"+e.EndTime.In(loc).Format("15:04")),
			e.Title,
			v.muted.Render(e.Description),
		)
	}
}

func (v *view) report(r scheduler.Report) {
	v.printf("%s\n", v.title.Render("Overdue job"))
	v.field("Habit tasks created", fmt.Sprint(r.HabitTasks))
	v.field("Overdue tasks", fmt.Sprint(r.Overdue))
	v.field("Notifications sent", fmt.Sprint(r.NotificationsSent))
	if r.AlreadyNotified > 0 {
		v.field("Already notified today", fmt.Sprint(r.AlreadyNotified))
	}
	if r.NotificationsFailed > 0 {
		v.field("Notifications failed", v.overdue.Render(fmt.Sprint(r.NotificationsFailed)))
	}
	v.field("Tasks with events", fmt.Sprint(r.EventsCreated))
	if r.EventFailures > 0 {
		v.field("Event failures", v.overdue.Render(fmt.Sprint(r.EventFailures)))
	}
}
