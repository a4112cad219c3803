package journal

var NewKafkaJournalWithWriter = newKafkaJournal
