package models

import "time"

type CompatibilityStats struct {
	TotalGames        int `json:"totalGames"`
	TotalResponses    int `json:"totalResponses"`
	TodaysActiveGames int `json:"todaysActiveGames"`
}

type HomeInfo struct {
	Compatibility CompatibilityStats `json:"compatibility"`
}

type ActiveGame struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	QuizCode      string    `json:"quiz_code"`
	NoOfResponses int       `json:"no_of_responses"`
	Created       time.Time `json:"created"`
}

type ActiveGames struct {
	Compatibility struct {
		TodaysActiveGames []ActiveGame `json:"todaysActiveGames"`
	} `json:"compatibility"`
}
