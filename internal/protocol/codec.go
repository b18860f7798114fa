package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the payload codec for one connection. JSON is the default;
// clients opt into msgpack binary frames for the smaller snapshot payloads.
type Encoding uint8

const (
	EncodingJSON Encoding = iota
	EncodingMsgpack
)

// ParseEncoding maps the wire name; anything but "msgpack" falls back to JSON.
func ParseEncoding(name string) Encoding {
	if name == "msgpack" {
		return EncodingMsgpack
	}
	return EncodingJSON
}

func (e Encoding) String() string {
	if e == EncodingMsgpack {
		return "msgpack"
	}
	return "json"
}

// Binary reports whether frames should be sent as binary websocket messages.
func (e Encoding) Binary() bool { return e == EncodingMsgpack }

// Marshal encodes an outbound envelope.
func (e Encoding) Marshal(env Envelope) ([]byte, error) {
	if e == EncodingMsgpack {
		return msgpack.Marshal(env)
	}
	return json.Marshal(env)
}

// Inbound is a client message whose payload is still encoded. The type tag is
// inspected first, then Decode extracts the payload into a typed struct.
type Inbound struct {
	T   string
	enc Encoding
	raw []byte
}

type inboundJSON struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d"`
}

type inboundMsgpack struct {
	T string             `msgpack:"t"`
	D msgpack.RawMessage `msgpack:"d"`
}

// DecodeInbound parses the envelope of a client frame without touching the
// payload.
func (e Encoding) DecodeInbound(data []byte) (Inbound, error) {
	if e == EncodingMsgpack {
		var env inboundMsgpack
		if err := msgpack.Unmarshal(data, &env); err != nil {
			return Inbound{}, fmt.Errorf("decode envelope: %w", err)
		}
		return Inbound{T: env.T, enc: e, raw: env.D}, nil
	}
	var env inboundJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return Inbound{}, fmt.Errorf("decode envelope: %w", err)
	}
	return Inbound{T: env.T, enc: e, raw: env.D}, nil
}

// Decode extracts the payload into v. A missing payload leaves v untouched.
func (m Inbound) Decode(v interface{}) error {
	if len(m.raw) == 0 {
		return nil
	}
	if m.enc == EncodingMsgpack {
		return msgpack.Unmarshal(m.raw, v)
	}
	return json.Unmarshal(m.raw, v)
}
