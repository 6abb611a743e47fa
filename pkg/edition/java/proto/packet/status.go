package packet

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
	"github.com/birchwood-mc/gate/pkg/proto/util"
)

// StatusRequest has no fields; its presence alone requests a StatusResponse.
type StatusRequest struct{}

func (*StatusRequest) Decode(*util.Buf, version.Protocol) error { return nil }
func (*StatusRequest) Encode(*util.Buf, version.Protocol) error { return nil }

// StatusResponse carries the JSON document described by spec §8 S1:
// {version:{name,protocol},players:{max,online,sample:[]},description,favicon}.
type StatusResponse struct {
	JSON string
}

func (r *StatusResponse) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	r.JSON, err = buf.ReadString(1 << 20)
	return err
}

func (r *StatusResponse) Encode(buf *util.Buf, _ version.Protocol) error {
	return buf.WriteString(r.JSON)
}

// PingRequest/PingResponse echo an opaque payload to measure round-trip
// latency; the proxy does not interpret Payload, only forwards it.
type PingRequest struct{ Payload int64 }

func (p *PingRequest) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	p.Payload, err = buf.ReadInt64()
	return err
}
func (p *PingRequest) Encode(buf *util.Buf, _ version.Protocol) error {
	return buf.WriteInt64(p.Payload)
}

type PingResponse struct{ Payload int64 }

func (p *PingResponse) Decode(buf *util.Buf, _ version.Protocol) (err error) {
	p.Payload, err = buf.ReadInt64()
	return err
}
func (p *PingResponse) Encode(buf *util.Buf, _ version.Protocol) error {
	return buf.WriteInt64(p.Payload)
}

// StatusJSON is the Go-side shape marshaled into StatusResponse.JSON.
type StatusJSON struct {
	Version     StatusVersion `json:"version"`
	Players     StatusPlayers `json:"players"`
	Description any           `json:"description"`
	Favicon     string        `json:"favicon,omitempty"`
}

type StatusVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type StatusPlayers struct {
	Max    int              `json:"max"`
	Online int              `json:"online"`
	Sample []StatusPlayerRef `json:"sample"`
}

type StatusPlayerRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}
