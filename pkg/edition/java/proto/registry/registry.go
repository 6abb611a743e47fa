// Package registry wires concrete packet types to wire ids per phase and
// direction (§3, §4.3). Ids target the 1.20.2+ wire format the proxy
// primarily speaks; the state.Registry's minProtocol buckets leave room to
// add older-version entries later without touching call sites (see
// DESIGN.md on the 1.8+ "forward intent" scope).
package registry

import (
	"github.com/birchwood-mc/gate/pkg/edition/java/proto"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/packet"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/state"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/version"
)

func reg(r *state.Registry, dir proto.Direction, id int32, minProto version.Protocol, ctor state.Constructor, typeName string) {
	r.Register(dir, id, minProto, ctor, typeName)
}

// Handshake builds the Handshake-phase registry: one serverbound packet,
// no clientbound traffic.
func Handshake() *state.Registry {
	r := state.NewRegistry(state.Handshake)
	reg(r, proto.ServerBound, 0x00, version.Lowest, func() proto.Packet { return &packet.Handshake{} }, "*packet.Handshake")
	return r
}

// Status builds the Status-phase registry (§8 S1/S2).
func Status() *state.Registry {
	r := state.NewRegistry(state.Status)
	reg(r, proto.ServerBound, 0x00, version.Lowest, func() proto.Packet { return &packet.StatusRequest{} }, "*packet.StatusRequest")
	reg(r, proto.ServerBound, 0x01, version.Lowest, func() proto.Packet { return &packet.PingRequest{} }, "*packet.PingRequest")
	reg(r, proto.ClientBound, 0x00, version.Lowest, func() proto.Packet { return &packet.StatusResponse{} }, "*packet.StatusResponse")
	reg(r, proto.ClientBound, 0x01, version.Lowest, func() proto.Packet { return &packet.PingResponse{} }, "*packet.PingResponse")
	return r
}

// Login builds the Login-phase registry (§4.5).
func Login() *state.Registry {
	r := state.NewRegistry(state.Login)
	reg(r, proto.ServerBound, 0x00, version.Lowest, func() proto.Packet { return &packet.LoginStart{} }, "*packet.LoginStart")
	reg(r, proto.ServerBound, 0x01, version.Lowest, func() proto.Packet { return &packet.EncryptionResponse{} }, "*packet.EncryptionResponse")
	reg(r, proto.ServerBound, 0x02, version.Lowest, func() proto.Packet { return &packet.LoginPluginResponse{} }, "*packet.LoginPluginResponse")

	reg(r, proto.ClientBound, 0x00, version.Lowest, func() proto.Packet { return &packet.LoginDisconnect{} }, "*packet.LoginDisconnect")
	reg(r, proto.ClientBound, 0x01, version.Lowest, func() proto.Packet { return &packet.EncryptionRequest{} }, "*packet.EncryptionRequest")
	reg(r, proto.ClientBound, 0x02, version.Lowest, func() proto.Packet { return &packet.LoginSuccess{} }, "*packet.LoginSuccess")
	reg(r, proto.ClientBound, 0x03, version.Lowest, func() proto.Packet { return &packet.SetCompression{} }, "*packet.SetCompression")
	reg(r, proto.ClientBound, 0x04, version.Lowest, func() proto.Packet { return &packet.LoginPluginRequest{} }, "*packet.LoginPluginRequest")
	return r
}

// Configuration builds the Configuration-phase registry, introduced at
// 1.20.2 and the vehicle the switch coordinator re-enters for backend
// swaps (§4.7).
func Configuration() *state.Registry {
	r := state.NewRegistry(state.Configuration)

	reg(r, proto.ServerBound, 0x00, version.Minecraft_1_20_2, func() proto.Packet { return &packet.ClientInformation{} }, "*packet.ClientInformation")
	reg(r, proto.ServerBound, 0x02, version.Minecraft_1_20_2, func() proto.Packet { return &packet.FinishConfiguration{} }, "*packet.FinishConfiguration")
	reg(r, proto.ServerBound, 0x03, version.Minecraft_1_20_2, func() proto.Packet { return &packet.KeepAliveConfiguration{} }, "*packet.KeepAliveConfiguration")
	reg(r, proto.ServerBound, 0x07, version.Minecraft_1_20_5, func() proto.Packet { return &packet.KnownPacks{} }, "*packet.KnownPacks")

	reg(r, proto.ClientBound, 0x01, version.Minecraft_1_20_2, func() proto.Packet { return &packet.DisconnectConfiguration{} }, "*packet.DisconnectConfiguration")
	reg(r, proto.ClientBound, 0x02, version.Minecraft_1_20_2, func() proto.Packet { return &packet.FinishConfiguration{} }, "*packet.FinishConfiguration")
	reg(r, proto.ClientBound, 0x03, version.Minecraft_1_20_2, func() proto.Packet { return &packet.KeepAliveConfiguration{} }, "*packet.KeepAliveConfiguration")
	reg(r, proto.ClientBound, 0x05, version.Minecraft_1_20_2, func() proto.Packet { return &packet.RegistryData{} }, "*packet.RegistryData")
	reg(r, proto.ClientBound, 0x08, version.Minecraft_1_20_2, func() proto.Packet { return &packet.FeatureFlags{} }, "*packet.FeatureFlags")
	reg(r, proto.ClientBound, 0x09, version.Minecraft_1_20_2, func() proto.Packet { return &packet.UpdateTags{} }, "*packet.UpdateTags")
	reg(r, proto.ClientBound, 0x0E, version.Minecraft_1_20_5, func() proto.Packet { return &packet.KnownPacks{} }, "*packet.KnownPacks")
	return r
}

// Play builds the Play-phase registry covering the subset of packets this
// proxy actually inspects or rewrites (§3, §4.6-4.9); everything else flows
// through as *proto.Unknown.
func Play() *state.Registry {
	r := state.NewRegistry(state.Play)

	reg(r, proto.ServerBound, 0x00, version.Minecraft_1_8, func() proto.Packet { return &packet.KeepAlive{} }, "*packet.KeepAlive")
	reg(r, proto.ServerBound, 0x10, version.Minecraft_1_8, func() proto.Packet { return &packet.PluginMessage{} }, "*packet.PluginMessage")
	reg(r, proto.ServerBound, 0x04, version.Minecraft_1_19, func() proto.Packet { return &packet.ChatCommand{} }, "*packet.ChatCommand")
	reg(r, proto.ServerBound, 0x05, version.Minecraft_1_19, func() proto.Packet { return &packet.ChatMessage{} }, "*packet.ChatMessage")

	reg(r, proto.ClientBound, 0x1D, version.Minecraft_1_8, func() proto.Packet { return &packet.Disconnect{} }, "*packet.Disconnect")
	reg(r, proto.ClientBound, 0x23, version.Minecraft_1_8, func() proto.Packet { return &packet.KeepAlive{} }, "*packet.KeepAlive")
	reg(r, proto.ClientBound, 0x25, version.Minecraft_1_8, func() proto.Packet { return &packet.JoinGame{} }, "*packet.JoinGame")
	reg(r, proto.ClientBound, 0x17, version.Minecraft_1_8, func() proto.Packet { return &packet.PluginMessage{} }, "*packet.PluginMessage")
	reg(r, proto.ClientBound, 0x41, version.Minecraft_1_8, func() proto.Packet { return &packet.Respawn{} }, "*packet.Respawn")
	reg(r, proto.ClientBound, 0x64, version.Minecraft_1_19, func() proto.Packet { return &packet.SystemChat{} }, "*packet.SystemChat")
	reg(r, proto.ClientBound, 0x0A, version.Minecraft_1_9, func() proto.Packet { return &packet.BossBar{} }, "*packet.BossBar")
	reg(r, proto.ClientBound, 0x31, version.Minecraft_1_8, func() proto.Packet { return &packet.PlayerAbilities{} }, "*packet.PlayerAbilities")
	reg(r, proto.ClientBound, 0x5F, version.Minecraft_1_8, func() proto.Packet { return &packet.TabListHeaderFooter{} }, "*packet.TabListHeaderFooter")
	reg(r, proto.ClientBound, 0x11, version.Minecraft_1_8, func() proto.Packet { return &packet.CloseWindow{} }, "*packet.CloseWindow")
	reg(r, proto.ClientBound, 0x6A, version.Minecraft_1_17, func() proto.Packet { return &packet.ResetTitle{} }, "*packet.ResetTitle")
	reg(r, proto.ClientBound, 0x4D, version.Minecraft_1_20_2, func() proto.Packet { return &packet.StartConfiguration{} }, "*packet.StartConfiguration")

	reg(r, proto.ClientBound, 0x52, version.Minecraft_1_8, func() proto.Packet { return &packet.ScoreboardObjective{} }, "*packet.ScoreboardObjective")
	reg(r, proto.ClientBound, 0x53, version.Minecraft_1_8, func() proto.Packet { return &packet.DisplayObjective{} }, "*packet.DisplayObjective")
	reg(r, proto.ClientBound, 0x54, version.Minecraft_1_8, func() proto.Packet { return &packet.ScoreboardScore{} }, "*packet.ScoreboardScore")
	reg(r, proto.ClientBound, 0x58, version.Minecraft_1_8, func() proto.Packet { return &packet.Team{} }, "*packet.Team")

	reg(r, proto.ClientBound, 0x3A, version.Minecraft_1_19_3, func() proto.Packet { return &packet.PlayerInfoUpdate{} }, "*packet.PlayerInfoUpdate")
	reg(r, proto.ClientBound, 0x3B, version.Minecraft_1_19_3, func() proto.Packet { return &packet.PlayerInfoRemove{} }, "*packet.PlayerInfoRemove")
	reg(r, proto.ClientBound, 0x12, version.Minecraft_1_8, func() proto.Packet { return &packet.DeclareCommands{} }, "*packet.DeclareCommands")

	return r
}
