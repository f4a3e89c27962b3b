package bson

import (
	"encoding/json"
	"testing"
	"time"
)

type benchmarkRecord struct {
	ID      int64     `bson:"_id"`
	Name    string    `bson:"name"`
	Score   float64   `bson:"score"`
	Tags    []string  `bson:"tags"`
	Created time.Time `bson:"created"`
	IsAlive bool      `bson:"alive"`
}

func benchmarkDocument() D {
	return D{
		{Key: "_id", Value: ObjectID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{Key: "name", Value: "benchmark"},
		{Key: "score", Value: 99.5},
		{Key: "count", Value: int64(1) << 40},
		{Key: "tags", Value: A{"a", "b", "c"}},
		{Key: "meta", Value: M{"z": 1, "y": true, "x": nil}},
		{Key: "blob", Value: make([]byte, 64)},
		{Key: "created", Value: time.UnixMilli(1709209800123).UTC()},
	}
}

func BenchmarkSerialize(b *testing.B) {
	doc := benchmarkDocument()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Serialize(doc)
	}
}

func BenchmarkSerializeOrdered(b *testing.B) {
	doc := benchmarkDocument()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = SerializeOrdered(doc)
	}
}

func BenchmarkSerializeStruct(b *testing.B) {
	rec := benchmarkRecord{ID: 7, Name: "benchmark", Score: 1.5, Tags: []string{"a"}, Created: time.Now(), IsAlive: true}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Serialize(rec)
	}
}

func BenchmarkMarshalTo(b *testing.B) {
	doc := benchmarkDocument()
	buf := make([]byte, doc.Size())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = doc.MarshalTo(buf)
	}
}

func BenchmarkSize(b *testing.B) {
	doc := benchmarkDocument()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = doc.Size()
	}
}

func BenchmarkDeserialize(b *testing.B) {
	data, _ := Serialize(benchmarkDocument())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Deserialize(data)
	}
}

// Baseline comparison against encoding/json on the same document.
func BenchmarkStandardJSONMarshal(b *testing.B) {
	doc := benchmarkDocument().Map()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(doc)
	}
}
