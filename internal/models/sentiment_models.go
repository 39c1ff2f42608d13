package models

import "time"

// SentimentDocument is the aggregated sentiment record written upstream to the
// sentiments collection. It is read once, when its create event fires.
type SentimentDocument struct {
	ID         string    `json:"id" dynamodbav:"id"`
	Count      int64     `json:"count" dynamodbav:"count"`
	FetchedAt  time.Time `json:"fetchedAt" dynamodbav:"fetchedAt"`
	LastSeenID string    `json:"lastSeenID" dynamodbav:"lastSeenID"`
	Score      float64   `json:"score" dynamodbav:"score"`
	Variance   float64   `json:"variance" dynamodbav:"variance"`
	StdDev     float64   `json:"stdDev" dynamodbav:"stdDev"`
	SearchTerm string    `json:"searchTerm" dynamodbav:"searchTerm"`
	Query      string    `json:"query" dynamodbav:"query"`
	Topic      string    `json:"topic" dynamodbav:"topic"`
}

// WarehouseRow is the body of a single warehouse insert.
type WarehouseRow struct {
	ID         string    `json:"id" dynamodbav:"id"`
	Count      int64     `json:"count" dynamodbav:"count"`
	FetchedAt  time.Time `json:"fetchedAt" dynamodbav:"fetchedAt"`
	LastSeenID string    `json:"lastSeenID" dynamodbav:"lastSeenID"`
	Score      float64   `json:"score" dynamodbav:"score"`
	Variance   float64   `json:"variance" dynamodbav:"variance"`
	StdDev     float64   `json:"stdDev" dynamodbav:"stdDev"`
	SearchTerm string    `json:"searchTerm" dynamodbav:"searchTerm"`
	Query      string    `json:"query" dynamodbav:"query"`
	Topic      string    `json:"topic" dynamodbav:"topic"`
}

// Values returns the row keyed by column name.
func (r WarehouseRow) Values() map[string]any {
	return map[string]any{
		"id":         r.ID,
		"count":      r.Count,
		"fetchedAt":  r.FetchedAt,
		"lastSeenID": r.LastSeenID,
		"score":      r.Score,
		"variance":   r.Variance,
		"stdDev":     r.StdDev,
		"searchTerm": r.SearchTerm,
		"query":      r.Query,
		"topic":      r.Topic,
	}
}

// WarehouseColumns lists the row columns in insert order.
var WarehouseColumns = []string{
	"id", "count", "fetchedAt", "lastSeenID", "score",
	"variance", "stdDev", "searchTerm", "query", "topic",
}

// InsertRow pairs a WarehouseRow with the token the warehouse uses to drop
// redelivered inserts.
type InsertRow struct {
	InsertID string
	Body     WarehouseRow
}

// Project copies doc into an InsertRow. Fields are carried over as-is and the
// document ID doubles as the insert ID.
func Project(doc SentimentDocument) InsertRow {
	return InsertRow{
		InsertID: doc.ID,
		Body: WarehouseRow{
			ID:         doc.ID,
			Count:      doc.Count,
			FetchedAt:  doc.FetchedAt,
			LastSeenID: doc.LastSeenID,
			Score:      doc.Score,
			Variance:   doc.Variance,
			StdDev:     doc.StdDev,
			SearchTerm: doc.SearchTerm,
			Query:      doc.Query,
			Topic:      doc.Topic,
		},
	}
}
