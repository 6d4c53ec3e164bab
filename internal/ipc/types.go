package ipc

import "turntable/internal/playback"

// Track mirrors the queue engine's track DTO for IPC callers.
type Track = playback.Track

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running      bool   `json:"running"`
	BotUsername  string `json:"bot_username"`
	Chats        int    `json:"chats"`
	SnapshotPath string `json:"snapshot_path"`
	LockPath     string `json:"lock_path"`
	PID          int    `json:"pid"`
}

// ChatsRequest lists known chats.
type ChatsRequest struct{}

// ChatSummary is one chat's queue at a glance.
type ChatSummary struct {
	ChatID  int64  `json:"chat_id"`
	Playing bool   `json:"playing"`
	Current *Track `json:"current"`
	Queued  int    `json:"queued"`
}

// ChatsResponse contains chat summaries ordered by chat id.
type ChatsResponse struct {
	Chats []ChatSummary `json:"chats"`
}

// QueueRequest fetches one chat's queue listing.
type QueueRequest struct {
	ChatID int64 `json:"chat_id"`
}

// QueueResponse contains the chat's current track and visible queue head.
type QueueResponse struct {
	Playing bool    `json:"playing"`
	Current *Track  `json:"current"`
	Tracks  []Track `json:"tracks"`
	Queued  int     `json:"queued"`
	Hidden  int     `json:"hidden"`
}

// StopChatRequest clears one chat's queue.
type StopChatRequest struct {
	ChatID int64 `json:"chat_id"`
}

// StopChatResponse reports whether the chat existed.
type StopChatResponse struct {
	Stopped bool `json:"stopped"`
}
