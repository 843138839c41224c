package repository

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"mc-gate-service/domain"
)

const (
	defaultMinecraftPort = 25565
	handshakeProtocol    = 47
	statusNextState      = 1
	statusPacketId       = 0x00
	maxStatusPacketSize  = 1 << 20
)

type minecraftResponse struct {
	Version struct {
		Name string `json:"name"`
	} `json:"version"`
	Players struct {
		Online int `json:"online"`
		Max    int `json:"max"`
	} `json:"players"`
	Description json.RawMessage `json:"description"`
}

type chatComponent struct {
	Text  string            `json:"text"`
	Extra []json.RawMessage `json:"extra"`
}

// Minecraft asks a Java edition server for its status over the server list ping protocol.
type Minecraft struct {
	timeout  time.Duration
	resolver *net.Resolver
}

func NewMinecraft(timeout time.Duration) Minecraft {
	return Minecraft{
		timeout:  timeout,
		resolver: net.DefaultResolver,
	}
}

func (r Minecraft) Status(ctx context.Context, address string) (*domain.MinecraftStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	host, port, err := r.lookup(ctx, address)
	if err != nil {
		return nil, errors.WithMessagef(err, "lookup %s", address)
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return nil, errors.WithMessage(err, "dial")
	}
	defer conn.Close()
	deadline, _ := ctx.Deadline()
	err = conn.SetDeadline(deadline)
	if err != nil {
		return nil, errors.WithMessage(err, "set deadline")
	}

	_, err = conn.Write(handshake(host, port))
	if err != nil {
		return nil, errors.WithMessage(err, "write handshake")
	}
	_, err = conn.Write(packet(statusPacketId, nil))
	if err != nil {
		return nil, errors.WithMessage(err, "write status request")
	}

	payload, err := readStatusPayload(bufio.NewReader(conn))
	if err != nil {
		return nil, err
	}

	resp := minecraftResponse{}
	err = json.Unmarshal(payload, &resp)
	if err != nil {
		return nil, errors.WithMessage(err, "decode status response")
	}

	return &domain.MinecraftStatus{
		Online: true,
		Players: domain.MinecraftPlayers{
			Online: resp.Players.Online,
			Max:    resp.Players.Max,
		},
		Version: resp.Version.Name,
		Motd:    plainText(resp.Description),
	}, nil
}

// lookup honors an explicit port, then a _minecraft._tcp SRV record, then the default port.
func (r Minecraft) lookup(ctx context.Context, address string) (string, uint16, error) {
	host, rawPort, err := net.SplitHostPort(address)
	if err == nil {
		port, err := strconv.ParseUint(rawPort, 10, 16)
		if err != nil {
			return "", 0, errors.Errorf("invalid port '%s'", rawPort)
		}
		return host, uint16(port), nil
	}

	host = address
	if net.ParseIP(host) != nil {
		return host, defaultMinecraftPort, nil
	}
	_, records, err := r.resolver.LookupSRV(ctx, "minecraft", "tcp", host)
	if err != nil || len(records) == 0 {
		return host, defaultMinecraftPort, nil //nolint:nilerr
	}
	return strings.TrimSuffix(records[0].Target, "."), records[0].Port, nil
}

func handshake(host string, port uint16) []byte {
	data := binary.AppendUvarint(nil, handshakeProtocol)
	data = appendString(data, host)
	data = binary.BigEndian.AppendUint16(data, port)
	data = binary.AppendUvarint(data, statusNextState)
	return packet(statusPacketId, data)
}

func packet(id uint64, data []byte) []byte {
	body := binary.AppendUvarint(nil, id)
	body = append(body, data...)
	result := binary.AppendUvarint(nil, uint64(len(body)))
	return append(result, body...)
}

func appendString(data []byte, value string) []byte {
	data = binary.AppendUvarint(data, uint64(len(value)))
	return append(data, value...)
}

func readStatusPayload(reader *bufio.Reader) ([]byte, error) {
	length, err := binary.ReadUvarint(reader)
	if err != nil {
		return nil, errors.WithMessage(err, "read packet length")
	}
	if length == 0 || length > maxStatusPacketSize {
		return nil, errors.Errorf("unexpected packet length %d", length)
	}
	id, err := binary.ReadUvarint(reader)
	if err != nil {
		return nil, errors.WithMessage(err, "read packet id")
	}
	if id != statusPacketId {
		return nil, errors.Errorf("unexpected packet id %d", id)
	}
	size, err := binary.ReadUvarint(reader)
	if err != nil {
		return nil, errors.WithMessage(err, "read payload size")
	}
	if size > length {
		return nil, errors.Errorf("payload size %d exceeds packet length %d", size, length)
	}
	payload := make([]byte, size)
	_, err = io.ReadFull(reader, payload)
	if err != nil {
		return nil, errors.WithMessage(err, "read payload")
	}
	return payload, nil
}

// plainText flattens a description that is either a plain string or a chat component tree.
func plainText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	text := ""
	err := json.Unmarshal(raw, &text)
	if err == nil {
		return text
	}

	component := chatComponent{}
	err = json.Unmarshal(raw, &component)
	if err != nil {
		return ""
	}
	builder := strings.Builder{}
	builder.WriteString(component.Text)
	for _, extra := range component.Extra {
		builder.WriteString(plainText(extra))
	}
	return builder.String()
}
