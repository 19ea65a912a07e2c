package simulation

import (
	"errors"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestDecodeAnchor(t *testing.T) {
	p := geometry.Vector2D{X: 3.5, Y: -2}
	got, err := DecodeAnchor(NewSetAnchor(&p))
	if err != nil || got == nil || !got.Eq(p) {
		t.Fatalf("DecodeAnchor = %v, %v; want %v", got, err, p)
	}

	got, err = DecodeAnchor(NewSetAnchor(nil))
	if err != nil || got != nil {
		t.Errorf("clear request decoded to %v, %v", got, err)
	}

	bad := []*structpb.ListValue{
		{Values: []*structpb.Value{structpb.NewNumberValue(1)}},
		{Values: []*structpb.Value{structpb.NewStringValue("x"), structpb.NewNumberValue(1)}},
	}
	for i, l := range bad {
		if _, err := DecodeAnchor(l); !errors.Is(err, ErrBadMessage) {
			t.Errorf("case %d: got %v; want ErrBadMessage", i, err)
		}
	}
}

func TestDecodeSetting(t *testing.T) {
	flock, name, value, err := DecodeSetting(NewSetSetting(3, "cohesionWeight", 1.2))
	if err != nil {
		t.Fatal(err)
	}
	if flock != 3 || name != "cohesionWeight" || value != 1.2 {
		t.Errorf("got %d %q %v", flock, name, value)
	}

	tests := []struct {
		name string
		msg  *structpb.Struct
	}{
		{"empty", &structpb.Struct{}},
		{"fractional flock", NewSetSetting(0, "size", 1)},
		{"string value", &structpb.Struct{Fields: map[string]*structpb.Value{
			"flock":   structpb.NewNumberValue(0),
			"setting": structpb.NewStringValue("size"),
			"value":   structpb.NewStringValue("big"),
		}}},
	}
	tests[1].msg.Fields["flock"] = structpb.NewNumberValue(1.5)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := DecodeSetting(tt.msg); !errors.Is(err, ErrBadMessage) {
				t.Errorf("got %v; want ErrBadMessage", err)
			}
		})
	}
}
