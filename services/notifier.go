package services

// Notifier publishes content-change events to connected site visitors.
// Implemented by the live hub; a NopNotifier stands in where no hub runs.
type Notifier interface {
	Publish(eventType string, payload interface{})
}

// Event types published by the services.
const (
	EventTournamentCreated = "TOURNAMENT_CREATED"
	EventTournamentUpdated = "TOURNAMENT_UPDATED"
	EventTournamentDeleted = "TOURNAMENT_DELETED"
	EventTeamMemberCreated = "TEAM_MEMBER_CREATED"
	EventTeamMemberUpdated = "TEAM_MEMBER_UPDATED"
	EventTeamMemberDeleted = "TEAM_MEMBER_DELETED"
)

type NopNotifier struct{}

func (NopNotifier) Publish(string, interface{}) {}
