package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

// EmbedSender is the part of a discord session the notifier uses
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type discordNotifier struct {
	sender    EmbedSender
	channelId string
}

// NewDiscord announces listings and sales on a discord channel
func NewDiscord(botKey, channelId string) (marketplace.Notifier, error) {
	session, err := discordgo.New(fmt.Sprintf("Bot %s", botKey))
	if err != nil {
		return nil, err
	}
	return NewDiscordWithSender(session, channelId), nil
}

func NewDiscordWithSender(sender EmbedSender, channelId string) marketplace.Notifier {
	return &discordNotifier{sender: sender, channelId: channelId}
}

func (n *discordNotifier) Name() string {
	return "discord"
}

func (n *discordNotifier) Accept(t marketplace.EventType) bool {
	return t == marketplace.EventNftBought || t == marketplace.EventNftListed
}

func (n *discordNotifier) Notify(c ctx.Ctx, evt marketplace.Event) error {
	msg := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("%s/%s", evt.Collection, evt.TokenId),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Seller", Value: string(evt.Seller)},
			{Name: "Price", Value: fmt.Sprintf("%s ETH", delivery.DisplayPrice(evt.Price))},
		},
	}
	switch evt.Type {
	case marketplace.EventNftBought:
		msg.Title = "Item sold!"
		msg.Fields = append(msg.Fields, &discordgo.MessageEmbedField{Name: "Buyer", Value: string(evt.Buyer)})
	case marketplace.EventNftListed:
		msg.Title = "Item listed!"
	default:
		return nil
	}

	if _, err := n.sender.ChannelMessageSendEmbed(n.channelId, msg); err != nil {
		return err
	}
	return nil
}
