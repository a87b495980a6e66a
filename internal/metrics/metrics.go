package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_cycles_total",
		Help: "Total sync cycles started.",
	})
	CycleFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_cycle_failures_total",
		Help: "Total sync cycles that ended in error.",
	})
	MessagesMigrated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_messages_migrated_total",
		Help: "Total message rows upserted into the target store.",
	})
	ContactsUpserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_contacts_upserted_total",
		Help: "Total contact documents upserted.",
	})
	RoomsUpserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_chatrooms_upserted_total",
		Help: "Total chat room documents upserted.",
	})
	BatchesCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_batches_committed_total",
		Help: "Total message batches written and checkpointed.",
	})
	BatchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_batch_failures_total",
		Help: "Total message batches that failed before checkpoint advance.",
	})
	SenderDecodeMiss = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_sender_decode_miss_total",
		Help: "Total group messages whose sender handle could not be decoded.",
	})
	CheckpointAdvances = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wx_sync_checkpoint_advances_total",
		Help: "Total checkpoint advances.",
	})
	LastSyncUnix = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wx_sync_last_success_unixtime",
		Help: "Unix time of the last fully successful cycle.",
	})
)

func Register() {
	prometheus.MustRegister(
		CyclesTotal, CycleFailures,
		MessagesMigrated, ContactsUpserted, RoomsUpserted,
		BatchesCommitted, BatchFailures,
		SenderDecodeMiss, CheckpointAdvances,
		LastSyncUnix,
	)
}
