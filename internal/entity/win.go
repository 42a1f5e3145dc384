package entity

// WinResult - outcome of a win-condition evaluation. Winner is empty while
// the game continues.
type WinResult struct {
	Winner         string
	Reason         string
	MafiaAlive     int
	VillagersAlive int
}

// EvaluateWinner - pure function over living-role counts, called once per
// win-check. Villagers win when no Mafia remain; Mafia win when they equal
// or outnumber the Villagers.
func EvaluateWinner(mafiaAlive, villagersAlive int) WinResult {
	result := WinResult{MafiaAlive: mafiaAlive, VillagersAlive: villagersAlive}

	switch {
	case mafiaAlive == 0:
		result.Winner = WinnerVillagers
		result.Reason = "all Mafia members have been eliminated"
	case mafiaAlive >= villagersAlive:
		result.Winner = WinnerMafia
		result.Reason = "Mafia now equals or outnumbers Villagers"
	}

	return result
}

// ForcedWinner - policy for the MAX_ROUNDS forced end: the faction with the
// majority of living members wins, Villagers on a tie.
func ForcedWinner(mafiaAlive, villagersAlive int) WinResult {
	result := WinResult{MafiaAlive: mafiaAlive, VillagersAlive: villagersAlive}

	if mafiaAlive > villagersAlive {
		result.Winner = WinnerMafia
		result.Reason = "round cap reached with a Mafia majority"
		return result
	}

	result.Winner = WinnerVillagers
	result.Reason = "round cap reached with a Villager majority"

	return result
}
