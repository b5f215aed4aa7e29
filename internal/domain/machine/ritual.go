package machine

// The consolidation ritual paces the UI through otherwise-instant server
// work. Progress moves only on explicit ADVANCE calls, never on wall-clock
// time, so arbitrarily slow or fast polling is safe.

const (
	ritualStep     = 20
	ritualComplete = 100
)

// ritualMessages is indexed by step; one message per ADVANCE call.
var ritualMessages = []string{
	"Reading your answers back.",
	"Lining up recurring themes.",
	"Weighing the resume against your narrative.",
	"Folding signals into dimensions.",
	"Locking the encoding.",
}

func ritualMessage(progress int) string {
	idx := progress/ritualStep - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ritualMessages) {
		idx = len(ritualMessages) - 1
	}
	return ritualMessages[idx]
}
