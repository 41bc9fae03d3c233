// Package pipeline converts discovered PBR materials into phong texture sets
// and descriptors.
package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/EchoTools/pbr2vmt/pkg/encode"
	"github.com/EchoTools/pbr2vmt/pkg/material"
	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// State is the position of a material in the conversion.
type State int

const (
	Discovered State = iota
	InputsResolved
	Aligned
	Composited
	Encoded
	DescriptorWritten
	Done

	// Failure states.
	MissingRequiredMap
	InvalidImage
	ChannelSplitFailure
	IOFailure
	EncodeFailure
)

var stateNames = map[State]string{
	Discovered:          "Discovered",
	InputsResolved:      "InputsResolved",
	Aligned:             "Aligned",
	Composited:          "Composited",
	Encoded:             "Encoded",
	DescriptorWritten:   "DescriptorWritten",
	Done:                "Done",
	MissingRequiredMap:  "MissingRequiredMap",
	InvalidImage:        "InvalidImage",
	ChannelSplitFailure: "ChannelSplitFailure",
	IOFailure:           "IOFailure",
	EncodeFailure:       "EncodeFailure",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Failed reports whether s is a terminal failure state.
func (s State) Failed() bool {
	return s >= MissingRequiredMap
}

var (
	// ErrNoneResolved is returned by Run when no material got past input
	// resolution.
	ErrNoneResolved = errors.New("no material could be resolved")
)

// Classify maps an error from the conversion steps onto a failure state.
func Classify(err error) State {
	switch {
	case errors.Is(err, material.ErrMissingRequiredMap):
		return MissingRequiredMap
	case errors.Is(err, pixel.ErrChannelCount):
		return ChannelSplitFailure
	case errors.Is(err, pixel.ErrInvalidImage):
		return InvalidImage
	case errors.Is(err, encode.ErrEncode):
		return EncodeFailure
	default:
		return IOFailure
	}
}
