package doctree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGet_MissingPathsYieldDefaults(t *testing.T) {
	tree := Tree{"final_result": Tree{"score": 75.0}}

	n := tree.Get("agent_2_template_detector", "output", "evidence", "grounded_elements_found")
	assert.False(t, n.Exists())
	assert.Equal(t, "", n.String())
	assert.Equal(t, 0.0, n.Float())
	assert.False(t, n.Bool())
	assert.Nil(t, n.Slice())
	assert.Nil(t, n.Strings())
	assert.Equal(t, 0, n.Len())
	assert.NotNil(t, n.Map())
	assert.Empty(t, n.Map())
}

func TestGet_NonObjectIntermediate(t *testing.T) {
	tree := Tree{"final_result": "oops"}
	assert.False(t, tree.Get("final_result", "score").Exists())
}

func TestGet_NullIntermediate(t *testing.T) {
	tree := Tree{"final_result": Tree{"repetition_analysis": nil}}
	assert.Equal(t, "", tree.Get("final_result", "repetition_analysis", "severity").String())
}

func TestFloat_NumericShapes(t *testing.T) {
	cases := map[string]interface{}{
		"float64": 68.0,
		"int32":   int32(68),
		"int64":   int64(68),
		"int":     68,
		"number":  json.Number("68"),
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 68.0, Of(v).Float())
		})
	}
	assert.Equal(t, 0.0, Of("68").Float())
}

func TestBSONShapes(t *testing.T) {
	doc := bson.M{
		"evaluation_response": bson.D{
			{Key: "agent_2_template_detector", Value: bson.M{
				"output": bson.M{
					"evidence": bson.M{
						"grounded_elements_found": bson.A{"man", "dog", "park"},
					},
				},
			}},
		},
	}
	tree := Of(doc).Map()
	got := tree.Get("evaluation_response", "agent_2_template_detector", "output", "evidence", "grounded_elements_found").Strings()
	assert.Equal(t, []string{"man", "dog", "park"}, got)
}

func TestID(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), Of(oid).ID())
	assert.Equal(t, "abc", Of("abc").ID())
	assert.Equal(t, "", Of(nil).ID())
	assert.Equal(t, "42", Of(int32(42)).ID())
}

func TestPlain(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := bson.M{
		"_id":   oid,
		"inner": bson.D{{Key: "list", Value: bson.A{bson.M{"a": int32(1)}}}},
	}

	out, ok := Plain(doc).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, oid.Hex(), out["_id"])

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"`+oid.Hex()+`","inner":{"list":[{"a":1}]}}`, string(data))
}

func TestStrings_NonStringElements(t *testing.T) {
	n := Of([]interface{}{"a", 2.5, true})
	assert.Equal(t, []string{"a", "2.5", "true"}, n.Strings())
}
