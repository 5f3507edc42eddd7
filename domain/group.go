package domain

// Group names a logical broadcast set of connections.
type Group string

const (
	// GroupAgents holds every connected agent.
	GroupAgents Group = "agent-pool"
	// GroupActiveRequesters holds requesters with an open session.
	// This is the presence queue agents observe.
	GroupActiveRequesters Group = "active-requesters"
)

const channelPrefix = "channel:"

// ChannelGroup is the durable per-requester channel, shared by that
// requester's own connections and targeted by agent replies.
func ChannelGroup(participantID string) Group {
	return Group(channelPrefix + participantID)
}
