package teamcowboy

import (
	"context"
	"time"

	"github.com/coachpo/teamcowboy/internal/signing"
)

// Remote method names.
const (
	MethodAuthGetUserToken       = "Auth_GetUserToken"
	MethodEventGet               = "Event_Get"
	MethodEventGetAttendanceList = "Event_GetAttendanceList"
	MethodEventSaveRSVP          = "Event_SaveRSVP"
	MethodMessageGet             = "Message_Get"
	MethodMessageDelete          = "Message_Delete"
	MethodMessageSave            = "Message_Save"
	MethodMessageCommentDelete   = "MessageComment_Delete"
	MethodMessageCommentAdd      = "MessageComment_Add"
	MethodTeamGet                = "Team_Get"
	MethodTeamGetEvents          = "Team_GetEvents"
	MethodTeamGetMessages        = "Team_GetMessages"
	MethodTeamGetRoster          = "Team_GetRoster"
	MethodTeamGetSeasons         = "Team_GetSeasons"
	MethodTestGetRequest         = "Test_GetRequest"
	MethodTestPostRequest        = "Test_PostRequest"
	MethodUserGet                = "User_Get"
	MethodUserGetNextTeamEvent   = "User_GetNextTeamEvent"
	MethodUserGetTeamEvents      = "User_GetTeamEvents"
	MethodUserGetTeamMessages    = "User_GetTeamMessages"
	MethodUserGetTeams           = "User_GetTeams"
)

// RSVP statuses accepted by SaveRSVP.
const (
	RSVPYes        = "yes"
	RSVPMaybe      = "maybe"
	RSVPAvailable  = "available"
	RSVPNo         = "no"
	RSVPNoResponse = "noresponse"
)

// EventRequest addresses one event of a team.
type EventRequest struct {
	UserToken       string
	TeamID          int
	EventID         int
	IncludeRSVPInfo *bool
}

// SaveRSVPRequest records the user's RSVP for an event.
type SaveRSVPRequest struct {
	UserToken    string
	TeamID       int
	EventID      int
	Status       string
	AddlMale     *int
	AddlFemale   *int
	Comments     *string
	RSVPAsUserID *int
}

// MessageRequest addresses one message of a team.
type MessageRequest struct {
	UserToken    string
	TeamID       int
	MessageID    int
	LoadComments *bool
}

// SaveMessageRequest creates a message, or updates one when MessageID is set.
type SaveMessageRequest struct {
	UserToken         string
	TeamID            int
	MessageID         *int
	Title             string
	Body              string
	IsPinned          *bool
	SendNotifications *bool
	IsHidden          *bool
	AllowComments     *bool
}

// CommentRequest addresses a comment on a message.
type CommentRequest struct {
	UserToken string
	TeamID    int
	MessageID int
	CommentID int
}

// AddCommentRequest posts a comment on a message.
type AddCommentRequest struct {
	UserToken string
	TeamID    int
	MessageID int
	Comment   string
}

// TeamEventsRequest lists events of a team.
type TeamEventsRequest struct {
	UserToken     string
	TeamID        int
	SeasonID      *int
	Filter        *string
	StartDateTime *time.Time
	EndDateTime   *time.Time
	Offset        *int
	Qty           *int
}

// MessagesRequest pages through messages. TeamID is required for team
// listings and optional for user listings.
type MessagesRequest struct {
	UserToken     string
	TeamID        *int
	Offset        *int
	Qty           *int
	SortBy        *string
	SortDirection *string
}

// RosterRequest lists the members of a team.
type RosterRequest struct {
	UserToken       string
	TeamID          int
	UserID          *int
	IncludeInactive *bool
	SortBy          *string
	SortDirection   *string
}

// UserEventsRequest lists events across the user's teams.
type UserEventsRequest struct {
	UserToken     string
	StartDateTime *time.Time
	EndDateTime   *time.Time
	TeamID        *int
}

func do[T any](ctx context.Context, c *Client, b *builder, verb signing.Verb, secure bool) (Response[T], error) {
	spec, err := b.spec(verb, secure)
	if err != nil {
		return Response[T]{}, err
	}
	return call[T](ctx, c, spec)
}

// GetUserToken exchanges a username and password for a user token over HTTPS.
func (c *Client) GetUserToken(ctx context.Context, username, password string) (Response[UserToken], error) {
	b := newBuilder(MethodAuthGetUserToken).
		required("username", username).
		required("password", password)
	return do[UserToken](ctx, c, b, signing.VerbPOST, true)
}

// GetEvent retrieves one event. IncludeRSVPInfo falls back to the server default when nil.
func (c *Client) GetEvent(ctx context.Context, req EventRequest) (Response[Event], error) {
	b := newBuilder(MethodEventGet).
		token(req.UserToken).
		id("teamId", req.TeamID).
		id("eventId", req.EventID).
		optBool("includeRSVPInfo", req.IncludeRSVPInfo)
	return do[Event](ctx, c, b, signing.VerbGET, false)
}

// GetAttendanceList retrieves per-status attendance for an event.
func (c *Client) GetAttendanceList(ctx context.Context, req EventRequest) (Response[AttendanceList], error) {
	b := newBuilder(MethodEventGetAttendanceList).
		token(req.UserToken).
		id("teamId", req.TeamID).
		id("eventId", req.EventID)
	return do[AttendanceList](ctx, c, b, signing.VerbGET, false)
}

// SaveRSVP records an RSVP.
func (c *Client) SaveRSVP(ctx context.Context, req SaveRSVPRequest) (Response[SaveRSVPResponse], error) {
	b := newBuilder(MethodEventSaveRSVP).
		token(req.UserToken).
		id("teamId", req.TeamID).
		id("eventId", req.EventID).
		required("status", req.Status).
		optInt("addlMale", req.AddlMale).
		optInt("addlFemale", req.AddlFemale).
		optString("comments", req.Comments).
		optID("rsvpAsUserId", req.RSVPAsUserID)
	return do[SaveRSVPResponse](ctx, c, b, signing.VerbPOST, false)
}

// GetMessage retrieves one message.
func (c *Client) GetMessage(ctx context.Context, req MessageRequest) (Response[Message], error) {
	b := newBuilder(MethodMessageGet).
		token(req.UserToken).
		id("teamId", req.TeamID).
		id("messageId", req.MessageID).
		optBool("loadComments", req.LoadComments)
	return do[Message](ctx, c, b, signing.VerbGET, false)
}

// DeleteMessage deletes a message. LoadComments is ignored.
func (c *Client) DeleteMessage(ctx context.Context, req MessageRequest) (Response[bool], error) {
	b := newBuilder(MethodMessageDelete).
		token(req.UserToken).
		id("teamId", req.TeamID).
		id("messageId", req.MessageID)
	return do[bool](ctx, c, b, signing.VerbPOST, false)
}

// SaveMessage creates or updates a message.
func (c *Client) SaveMessage(ctx context.Context, req SaveMessageRequest) (Response[Message], error) {
	b := newBuilder(MethodMessageSave).
		token(req.UserToken).
		id("teamId", req.TeamID).
		optID("messageId", req.MessageID).
		required("title", req.Title).
		required("body", req.Body).
		optBool("isPinned", req.IsPinned).
		optBool("sendNotifications", req.SendNotifications).
		optBool("isHidden", req.IsHidden).
		optBool("allowComments", req.AllowComments)
	return do[Message](ctx, c, b, signing.VerbPOST, false)
}

// DeleteMessageComment deletes a comment.
func (c *Client) DeleteMessageComment(ctx context.Context, req CommentRequest) (Response[bool], error) {
	b := newBuilder(MethodMessageCommentDelete).
		token(req.UserToken).
		id("teamId", req.TeamID).
		id("messageId", req.MessageID).
		id("commentId", req.CommentID)
	return do[bool](ctx, c, b, signing.VerbPOST, false)
}

// AddMessageComment posts a comment.
func (c *Client) AddMessageComment(ctx context.Context, req AddCommentRequest) (Response[bool], error) {
	b := newBuilder(MethodMessageCommentAdd).
		token(req.UserToken).
		id("teamId", req.TeamID).
		id("messageId", req.MessageID).
		required("comment", req.Comment)
	return do[bool](ctx, c, b, signing.VerbPOST, false)
}

// GetTeam retrieves one team.
func (c *Client) GetTeam(ctx context.Context, userToken string, teamID int) (Response[Team], error) {
	b := newBuilder(MethodTeamGet).token(userToken).id("teamId", teamID)
	return do[Team](ctx, c, b, signing.VerbGET, false)
}

// GetTeamEvents lists events of a team.
func (c *Client) GetTeamEvents(ctx context.Context, req TeamEventsRequest) (Response[[]Event], error) {
	b := newBuilder(MethodTeamGetEvents).
		token(req.UserToken).
		id("teamId", req.TeamID).
		optID("seasonId", req.SeasonID).
		optString("filter", req.Filter).
		optDate("startDateTime", req.StartDateTime).
		optDate("endDateTime", req.EndDateTime).
		optInt("offset", req.Offset).
		optInt("qty", req.Qty)
	return do[[]Event](ctx, c, b, signing.VerbGET, false)
}

// GetTeamMessages lists messages of a team. req.TeamID is required.
func (c *Client) GetTeamMessages(ctx context.Context, req MessagesRequest) (Response[[]Message], error) {
	b := newBuilder(MethodTeamGetMessages).token(req.UserToken)
	if req.TeamID == nil {
		b.fail("teamId required")
	}
	b.optID("teamId", req.TeamID).
		optInt("offset", req.Offset).
		optInt("qty", req.Qty).
		optString("sortBy", req.SortBy).
		optString("sortDirection", req.SortDirection)
	return do[[]Message](ctx, c, b, signing.VerbGET, false)
}

// GetTeamRoster lists team members.
func (c *Client) GetTeamRoster(ctx context.Context, req RosterRequest) (Response[[]User], error) {
	b := newBuilder(MethodTeamGetRoster).
		token(req.UserToken).
		id("teamId", req.TeamID).
		optID("userId", req.UserID).
		optBool("includeInactive", req.IncludeInactive).
		optString("sortBy", req.SortBy).
		optString("sortDirection", req.SortDirection)
	return do[[]User](ctx, c, b, signing.VerbGET, false)
}

// GetTeamSeasons lists the seasons of a team.
func (c *Client) GetTeamSeasons(ctx context.Context, userToken string, teamID int) (Response[[]Season], error) {
	b := newBuilder(MethodTeamGetSeasons).token(userToken).id("teamId", teamID)
	return do[[]Season](ctx, c, b, signing.VerbGET, false)
}

// TestGetRequest echoes testParam through a signed GET.
func (c *Client) TestGetRequest(ctx context.Context, testParam *string) (Response[string], error) {
	b := newBuilder(MethodTestGetRequest).optString("testParam", testParam)
	return do[string](ctx, c, b, signing.VerbGET, false)
}

// TestPostRequest echoes testParam through a signed POST.
func (c *Client) TestPostRequest(ctx context.Context, testParam *string) (Response[string], error) {
	b := newBuilder(MethodTestPostRequest).optString("testParam", testParam)
	return do[string](ctx, c, b, signing.VerbPOST, false)
}

// GetUser retrieves the user owning userToken.
func (c *Client) GetUser(ctx context.Context, userToken string) (Response[User], error) {
	b := newBuilder(MethodUserGet).token(userToken)
	return do[User](ctx, c, b, signing.VerbGET, false)
}

// GetUserNextTeamEvent retrieves the user's next event, optionally limited to
// one team. The payload is nil when nothing is scheduled.
func (c *Client) GetUserNextTeamEvent(ctx context.Context, userToken string, teamID *int) (Response[*Event], error) {
	b := newBuilder(MethodUserGetNextTeamEvent).token(userToken).optID("teamId", teamID)
	return do[*Event](ctx, c, b, signing.VerbGET, false)
}

// GetUserTeamEvents lists events across the user's teams.
func (c *Client) GetUserTeamEvents(ctx context.Context, req UserEventsRequest) (Response[[]Event], error) {
	b := newBuilder(MethodUserGetTeamEvents).
		token(req.UserToken).
		optDate("startDateTime", req.StartDateTime).
		optDate("endDateTime", req.EndDateTime).
		optID("teamId", req.TeamID)
	return do[[]Event](ctx, c, b, signing.VerbGET, false)
}

// GetUserTeamMessages lists messages across the user's teams.
func (c *Client) GetUserTeamMessages(ctx context.Context, req MessagesRequest) (Response[[]Message], error) {
	b := newBuilder(MethodUserGetTeamMessages).
		token(req.UserToken).
		optID("teamId", req.TeamID).
		optInt("offset", req.Offset).
		optInt("qty", req.Qty).
		optString("sortBy", req.SortBy).
		optString("sortDirection", req.SortDirection)
	return do[[]Message](ctx, c, b, signing.VerbGET, false)
}

// GetUserTeams lists the user's teams.
func (c *Client) GetUserTeams(ctx context.Context, userToken string) (Response[[]Team], error) {
	b := newBuilder(MethodUserGetTeams).token(userToken)
	return do[[]Team](ctx, c, b, signing.VerbGET, false)
}
