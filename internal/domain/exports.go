package domain

import (
	interfaces "modmail/internal/domain/interfaces"
	types "modmail/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	CorrespondentID = types.CorrespondentID
	ThreadID        = types.ThreadID
	ChannelID       = types.ChannelID
	MessageID       = types.MessageID
	RoleID          = types.RoleID
	Session         = types.Session
	RecoveryReport  = types.RecoveryReport
	Author          = types.Author
	Attachment      = types.Attachment
	Message         = types.Message
	ChannelKind     = types.ChannelKind
	Channel         = types.Channel
	Thread          = types.Thread
)

// Channel kinds.
const (
	ChannelOther  = types.ChannelOther
	ChannelText   = types.ChannelText
	ChannelForum  = types.ChannelForum
	ChannelThread = types.ChannelThread
	ChannelDM     = types.ChannelDM
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Platform         = interfaces.Platform
	Directory        = interfaces.Directory
	RelayService     = interfaces.RelayService
	RecoveryService  = interfaces.RecoveryService
	LifecycleService = interfaces.LifecycleService
	TokenStore       = interfaces.TokenStore
)
