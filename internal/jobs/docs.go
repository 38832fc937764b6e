// Package jobs provides scheduled background tasks for the fulfillment engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. AutoApprovalJob - confirms pending items whose vendor policy allows it
// 2. AssignmentRetryJob - retries partner matching for confirmed orders without an active assignment
// 3. OutboxRelayJob - publishes committed lifecycle events to Kafka
//
// # Usage
//
//	jobManager := jobs.NewJobManager(autoApprovalJob, retryJob, relayJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions with a seconds field, configured
// per job. A tick still running when the next is due is skipped.
//
// # Error Handling
//
// Tick errors are logged and counted in the fulfillment.job.runs metric.
// They never stop the schedule. Failed job starts stop any already running jobs.
package jobs
