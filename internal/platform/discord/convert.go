package discord

import (
	"github.com/bwmarrin/discordgo"

	"modmail/internal/domain"
)

func channelKind(t discordgo.ChannelType) domain.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildForum:
		return domain.ChannelForum
	case discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildNewsThread:
		return domain.ChannelThread
	case discordgo.ChannelTypeDM, discordgo.ChannelTypeGroupDM:
		return domain.ChannelDM
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return domain.ChannelText
	default:
		return domain.ChannelOther
	}
}

func toChannel(c *discordgo.Channel) domain.Channel {
	return domain.Channel{
		ID:       domain.ChannelID(c.ID),
		GuildID:  c.GuildID,
		ParentID: domain.ChannelID(c.ParentID),
		Name:     c.Name,
		Kind:     channelKind(c.Type),
	}
}

func toThread(c *discordgo.Channel) domain.Thread {
	return domain.Thread{
		ID:       domain.ThreadID(c.ID),
		ParentID: domain.ChannelID(c.ParentID),
		Name:     c.Name,
		// A forum post's starter message shares the thread's ID.
		StarterMessageID: domain.MessageID(c.ID),
	}
}

// toAuthor prefers the guild nickname, then the global display name.
func toAuthor(u *discordgo.User, m *discordgo.Member) domain.Author {
	if u == nil {
		return domain.Author{}
	}
	a := domain.Author{
		ID:          domain.CorrespondentID(u.ID),
		Username:    u.Username,
		DisplayName: u.GlobalName,
		Bot:         u.Bot,
	}
	if m != nil && m.Nick != "" {
		a.DisplayName = m.Nick
	}
	return a
}

func toMessage(m *discordgo.Message) domain.Message {
	msg := domain.Message{
		ID:        domain.MessageID(m.ID),
		ChannelID: domain.ChannelID(m.ChannelID),
		GuildID:   m.GuildID,
		Author:    toAuthor(m.Author, m.Member),
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, domain.Attachment{
			Filename:    a.Filename,
			URL:         a.URL,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	return msg
}
