package main

import (
	"contenteval/internal/config"
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sample struct {
	remark        string
	expected      int
	score         int
	scoreOf90     int
	isTemplate    bool
	severity      string
	feedback      string
	transcription string
	grounded      []string
	signals       []string
	contentScore  int
	conclusion    bool
}

var samples = []sample{
	{
		remark:        "Strong, specific description",
		expected:      72,
		score:         78,
		scoreOf90:     70,
		severity:      "low",
		feedback:      "Covers the main elements and ends with a clear conclusion.",
		transcription: "The picture shows a busy park on a sunny afternoon. In the foreground a man is walking a brown dog along a gravel path, while two children are flying a red kite near a large oak tree. Overall, it is a lively scene of people enjoying the outdoors.",
		grounded:      []string{"park", "man", "brown dog", "gravel path", "children", "red kite", "oak tree"},
		contentScore:  78,
		conclusion:    true,
	},
	{
		remark:        "Memorized template",
		expected:      20,
		score:         10,
		scoreOf90:     9,
		isTemplate:    true,
		severity:      "high",
		feedback:      "The response relies on a generic template and barely refers to the image.",
		transcription: "This image gives information about many things. There are many colors and many objects. In conclusion, this image is very informative and interesting.",
		grounded:      []string{"colors"},
		signals:       []string{"this image gives information about", "in conclusion, this image is very informative"},
		contentScore:  42,
	},
	{
		remark:        "Partial coverage, repetitive connectors",
		expected:      55,
		score:         48,
		scoreOf90:     43,
		severity:      "moderate",
		feedback:      "Some elements are described but the structure repeats and there is no conclusion.",
		transcription: "There is a kitchen and there is a woman and she is cooking and there is a pot and there is a window.",
		grounded:      []string{"kitchen", "woman", "pot", "window"},
		contentScore:  60,
	},
}

func (s sample) document() bson.M {
	phrases := bson.A{}
	connectors := bson.A{}
	if s.severity == "moderate" || s.severity == "high" {
		phrases = append(phrases, bson.M{"phrase": "there is a", "count": 4})
		connectors = append(connectors, bson.M{"connector": "and", "count": 4})
	}

	return bson.M{
		"_id":            primitive.NewObjectID(),
		"student_remark": s.remark,
		"expected_score": s.expected,
		"created_at":     time.Now(),
		"evaluation_response": bson.M{
			"transcription": s.transcription,
			"final_result": bson.M{
				"score":           s.score,
				"score_out_of_90": s.scoreOf90,
				"is_template":     s.isTemplate,
				"final_feedback":  s.feedback,
				"repetition_analysis": bson.M{
					"severity":             s.severity,
					"phrase_repetition":    phrases,
					"structure_repetition": bson.A{},
					"connector_overuse":    connectors,
				},
			},
			"agent_1_content_scorer": bson.M{
				"output": bson.M{
					"evidence": bson.M{"conclusion_marker_present": s.conclusion},
				},
			},
			"agent_2_template_detector": bson.M{
				"output": bson.M{
					"content_score_90":  s.contentScore,
					"template_detected": s.isTemplate,
					"feedback":          s.feedback,
					"evidence": bson.M{
						"grounded_elements_found":  s.grounded,
						"generic_template_signals": s.signals,
					},
				},
			},
		},
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)

	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		docs = append(docs, s.document())
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		log.Fatalf("Failed to insert evaluations: %v", err)
	}

	fmt.Printf("Successfully inserted %d evaluation documents into %s/%s\n", len(res.InsertedIDs), cfg.MongoDatabase, cfg.MongoCollection)
}
