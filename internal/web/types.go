package web

type LobbySummary struct {
	ID      string
	Name    string
	Players int
	Created string
}

type ResultsEntry struct {
	Round   int
	Name    string
	Kind    string
	Word    string
	Drawing string
	Pending bool
}

type ResultsView struct {
	LobbyID    string
	PlayerName string
	Word       string
	Entries    []ResultsEntry
}
