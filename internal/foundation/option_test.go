package foundation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type optionHolder struct {
	Default Option[string] `json:"default,omitzero" yaml:"default,omitempty"`
	Name    string         `json:"name" yaml:"name"`
}

func TestOption(t *testing.T) {
	some := Some("2")
	v, ok := some.Get()
	require.True(t, ok)
	require.Equal(t, "2", v)
	require.Equal(t, "Some(2)", some.String())
	require.Equal(t, "2", *some.ToPointer())

	none := None[string]()
	require.True(t, none.IsNone())
	require.True(t, none.IsZero())
	require.Equal(t, "fallback", none.UnwrapOr("fallback"))
	require.Nil(t, none.ToPointer())
	require.Equal(t, "None", none.String())

	empty := ""
	require.True(t, FromPointer(&empty).IsSome())
	require.True(t, FromPointer[string](nil).IsNone())
}

func TestOptionJSON(t *testing.T) {
	out, err := json.Marshal(optionHolder{Name: "x"})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"x"}`, string(out))

	out, err = json.Marshal(optionHolder{Name: "x", Default: Some("")})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"x","default":""}`, string(out))

	var back optionHolder
	require.NoError(t, json.Unmarshal(out, &back))
	require.True(t, back.Default.IsSome())
	require.Equal(t, "", back.Default.UnwrapOr("unset"))

	require.NoError(t, json.Unmarshal([]byte(`{"name":"y","default":null}`), &back))
	require.True(t, back.Default.IsNone())
}

func TestOptionYAML(t *testing.T) {
	out, err := yaml.Marshal(optionHolder{Name: "x"})
	require.NoError(t, err)
	require.Equal(t, "name: x\n", string(out))

	out, err = yaml.Marshal(optionHolder{Name: "x", Default: Some("2")})
	require.NoError(t, err)

	var back optionHolder
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, Some("2"), back.Default)
}
