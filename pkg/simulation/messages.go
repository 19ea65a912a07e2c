package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Messages understood by WorldActor. They are protobuf well-known types so they
// travel through goakt mailboxes without generated code:
//
//	*timestamppb.Timestamp  tick at that wall-clock time
//	*wrapperspb.StringValue one of the Cmd* commands
//	*wrapperspb.Int32Value  select the active flock
//	*structpb.ListValue     set the anchor to [x, y]; an empty list clears it
//	*structpb.Struct        {flock, setting, value} edits one flock setting
const (
	CmdPause       = "pause"
	CmdSolo        = "solo"
	CmdCollisions  = "collisions"
	CmdScatter     = "scatter"
	CmdClearAnchor = "clear-anchor"
	CmdResetClock  = "reset-clock"
)

// ErrBadMessage is returned when a message payload has the wrong shape.
var ErrBadMessage = errors.New("malformed world message")

func NewTick(now time.Time) *timestamppb.Timestamp {
	return timestamppb.New(now)
}

func NewCommand(cmd string) *wrapperspb.StringValue {
	return wrapperspb.String(cmd)
}

func NewSelectFlock(i int) *wrapperspb.Int32Value {
	return wrapperspb.Int32(int32(i))
}

// NewSetAnchor encodes p; nil encodes the clear request.
func NewSetAnchor(p *geometry.Vector2D) *structpb.ListValue {
	if p == nil {
		return &structpb.ListValue{}
	}
	return &structpb.ListValue{Values: []*structpb.Value{
		structpb.NewNumberValue(p.X),
		structpb.NewNumberValue(p.Y),
	}}
}

func NewSetSetting(flock int, name string, value float64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"flock":   structpb.NewNumberValue(float64(flock)),
		"setting": structpb.NewStringValue(name),
		"value":   structpb.NewNumberValue(value),
	}}
}

// DecodeAnchor is the inverse of NewSetAnchor.
func DecodeAnchor(l *structpb.ListValue) (*geometry.Vector2D, error) {
	vals := l.GetValues()
	switch len(vals) {
	case 0:
		return nil, nil
	case 2:
		x, okX := vals[0].GetKind().(*structpb.Value_NumberValue)
		y, okY := vals[1].GetKind().(*structpb.Value_NumberValue)
		if !okX || !okY {
			return nil, fmt.Errorf("%w: anchor coordinates must be numbers", ErrBadMessage)
		}
		return &geometry.Vector2D{X: x.NumberValue, Y: y.NumberValue}, nil
	default:
		return nil, fmt.Errorf("%w: anchor needs 0 or 2 values, got %d", ErrBadMessage, len(vals))
	}
}

// DecodeSetting is the inverse of NewSetSetting.
func DecodeSetting(s *structpb.Struct) (flock int, name string, value float64, err error) {
	fields := s.GetFields()
	f, okF := fields["flock"].GetKind().(*structpb.Value_NumberValue)
	n, okN := fields["setting"].GetKind().(*structpb.Value_StringValue)
	v, okV := fields["value"].GetKind().(*structpb.Value_NumberValue)
	if !okF || !okN || !okV {
		return 0, "", 0, fmt.Errorf("%w: setting needs flock, setting and value", ErrBadMessage)
	}
	if f.NumberValue != math.Trunc(f.NumberValue) {
		return 0, "", 0, fmt.Errorf("%w: flock index %v is not an integer", ErrBadMessage, f.NumberValue)
	}
	return int(f.NumberValue), n.StringValue, v.NumberValue, nil
}
