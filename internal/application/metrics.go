package application

import "expvar"

// Counters published on /debug/vars.
var (
	notificationsSent   = expvar.NewInt("todo_notifications_sent")
	notificationsFailed = expvar.NewInt("todo_notifications_failed")
	remindersSent       = expvar.NewInt("todo_reminders_sent")
	remindersFailed     = expvar.NewInt("todo_reminders_failed")
	reminderRuns        = expvar.NewInt("todo_reminder_runs")
)
