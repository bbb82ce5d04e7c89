package services

var (
	Relay *SignalRelay
	Calls *CallArbiter
)

func SetupRealtime() {
	Relay = NewSignalRelay()
	Calls = NewCallArbiter(NewCallRequestStore(), NewDirectory(), Relay)
}
