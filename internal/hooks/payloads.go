package hooks

import "github.com/stormcoast/voxelwar/internal/mathutil"

// These payload structs intentionally use only scalar ids and
// vectors, not concrete *Peer/*Entity types, so this package never
// needs to import internal/core, internal/conn, or internal/entity —
// it stays a leaf dependency games modes subscribe to.

// SpawnArgs/SpawnResult back TryPlayerSpawn: a mode can veto or
// relocate a spawn.
type SpawnArgs struct {
	PlayerID uint8
	Team     int8
}

type SpawnResult struct {
	Position mathutil.Vec3
	Denied   bool
}

// HurtArgs/TryPlayerHurt: a mode can reduce/zero incoming damage
// (e.g. spawn protection, friendly fire rules).
type HurtArgs struct {
	PlayerID uint8
	AttackerID int32 // -1 if none (fall damage, etc.)
	Damage   float64
	Cause    uint8
}

// KillArgs backs TryPlayerKill/OnPlayerKill.
type KillArgs struct {
	PlayerID   uint8
	KillerID   int32
	KillType   uint8
}

// BuildArgs backs TryBuildBlock/OnBuildBlock.
type BuildArgs struct {
	PlayerID uint8
	X, Y, Z  int32
	R, G, B  uint8
}

// DestroyArgs backs TryDestroyBlock/OnDestroyBlock.
type DestroyArgs struct {
	PlayerID uint8
	X, Y, Z  int32
}

// ChatArgs backs TryChatMessage/OnChatMessage.
type ChatArgs struct {
	PlayerID uint8
	ChatType uint8
	Value    string
}

// ConnectArgs/JoinArgs/LeaveArgs back the connection lifecycle
// notifications.
type ConnectArgs struct {
	PlayerID uint8
}

type JoinArgs struct {
	PlayerID uint8
	Name     string
	Team     int8
}

type LeaveArgs struct {
	PlayerID uint8
}

// CommandArgs backs OnUseCommand (§4.8 chat-prefixed server commands).
type CommandArgs struct {
	PlayerID uint8
	Value    string
}

// GameEndArgs backs OnGameEnd.
type GameEndArgs struct {
	WinningTeam int8
}

// Bus groups every hook a game mode or script may subscribe to. The
// core server owns one Bus and fires each event at the point named in
// its field comment.
type Bus struct {
	TryPlayerSpawn  *Overridable[SpawnArgs, SpawnResult]
	TryPlayerHurt   *Overridable[HurtArgs, float64] // returns adjusted damage
	TryPlayerKill   *Overridable[KillArgs, bool]    // true = suppress the kill
	TryBuildBlock   *Overridable[BuildArgs, bool]   // true = deny the build
	TryDestroyBlock *Overridable[DestroyArgs, bool] // true = deny the destroy
	TryChatMessage  *Overridable[ChatArgs, string]  // returns a rewritten/blocked message

	OnPlayerConnect *Notifier[ConnectArgs]
	OnPlayerJoin    *Notifier[JoinArgs]
	OnPlayerLeave   *Notifier[LeaveArgs]
	OnPlayerSpawn   *Notifier[SpawnArgs]
	OnPlayerHurt    *Notifier[HurtArgs]
	OnPlayerKill    *Notifier[KillArgs]
	OnBuildBlock    *Notifier[BuildArgs]
	OnDestroyBlock  *Notifier[DestroyArgs]
	OnChatMessage   *Notifier[ChatArgs]
	OnUseCommand    *Notifier[CommandArgs]
	OnGameEnd       *Notifier[GameEndArgs]
}

// NewBus wires every event with onPanic as its panic logger (§7: a
// panicking hook is treated the same as one that declined to act).
func NewBus(onPanic func(recovered any)) *Bus {
	return &Bus{
		TryPlayerSpawn:  NewOverridable[SpawnArgs, SpawnResult](onPanic),
		TryPlayerHurt:   NewOverridable[HurtArgs, float64](onPanic),
		TryPlayerKill:   NewOverridable[KillArgs, bool](onPanic),
		TryBuildBlock:   NewOverridable[BuildArgs, bool](onPanic),
		TryDestroyBlock: NewOverridable[DestroyArgs, bool](onPanic),
		TryChatMessage:  NewOverridable[ChatArgs, string](onPanic),

		OnPlayerConnect: NewNotifier[ConnectArgs](onPanic),
		OnPlayerJoin:    NewNotifier[JoinArgs](onPanic),
		OnPlayerLeave:   NewNotifier[LeaveArgs](onPanic),
		OnPlayerSpawn:   NewNotifier[SpawnArgs](onPanic),
		OnPlayerHurt:    NewNotifier[HurtArgs](onPanic),
		OnPlayerKill:    NewNotifier[KillArgs](onPanic),
		OnBuildBlock:    NewNotifier[BuildArgs](onPanic),
		OnDestroyBlock:  NewNotifier[DestroyArgs](onPanic),
		OnChatMessage:   NewNotifier[ChatArgs](onPanic),
		OnUseCommand:    NewNotifier[CommandArgs](onPanic),
		OnGameEnd:       NewNotifier[GameEndArgs](onPanic),
	}
}
