package teamcowboy

// UserToken is returned by Auth_GetUserToken.
type UserToken struct {
	UserID int    `json:"userId"`
	Token  string `json:"token"`
}

// Activity is the sport or pastime a team or season is organised around.
type Activity struct {
	ActivityID int    `json:"activityId"`
	Name       string `json:"name"`
}

// ProfilePhoto carries the URLs of a user or team photo.
type ProfilePhoto struct {
	Title        string `json:"title,omitempty"`
	FullURL      string `json:"fullUrl,omitempty"`
	SmallURL     string `json:"smallUrl,omitempty"`
	ThumbURL     string `json:"thumbUrl,omitempty"`
	DateAddedUTC string `json:"dateAddedUtc,omitempty"`
}

// TeamMemberType describes a user's membership class on a team.
type TeamMemberType struct {
	Title        string `json:"title"`
	Name         string `json:"name"`
	IsPlayerType bool   `json:"isPlayerType"`
}

// TeamInvite describes a pending invitation to a team.
type TeamInvite struct {
	Status        string `json:"status"`
	StatusDisplay string `json:"statusDisplay"`
}

// TeamMetadata is the current user's relationship to a team.
type TeamMetadata struct {
	TeamMemberType  *TeamMemberType `json:"teamMemberType,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	IsTeamAdmin     *bool           `json:"isTeamAdmin,omitempty"`
	Invite          *TeamInvite     `json:"invite,omitempty"`
	IsHiddenByUser  *bool           `json:"isHiddenByUser,omitempty"`
	ShowOnDashboard *bool           `json:"showOnDashboard,omitempty"`
}

// TeamOptions are team-level display preferences.
type TeamOptions struct {
	ShowGenderForRSVP bool `json:"showGenderForRsvp"`
	AllowExtraPlayers bool `json:"allowExtraPlayers"`
}

// Team is a team the user belongs to.
type Team struct {
	TeamID               int           `json:"teamId"`
	Name                 string        `json:"name"`
	ShortName            string        `json:"shortName"`
	Activity             *Activity     `json:"activity,omitempty"`
	TimezoneID           string        `json:"timezoneId"`
	City                 string        `json:"city"`
	StateProvince        string        `json:"stateProvince"`
	StateProvinceAbbrev  string        `json:"stateProvinceAbbrev"`
	Country              string        `json:"country"`
	CountryISO3          string        `json:"countryIso3"`
	PostalCode           string        `json:"postalCode"`
	LocationDisplayShort string        `json:"locationDisplayShort"`
	LocationDisplayLong  string        `json:"locationDisplayLong"`
	TeamPhoto            *ProfilePhoto `json:"teamPhoto,omitempty"`
	Options              *TeamOptions  `json:"options,omitempty"`
	UserProfileInfo      *User         `json:"userProfileInfo,omitempty"`
	Meta                 *TeamMetadata `json:"meta,omitempty"`
	DateCreatedUTC       string        `json:"dateCreatedUtc"`
	DateLastUpdatedUTC   string        `json:"dateLastUpdatedUtc"`
}

// League groups seasons across teams.
type League struct {
	LeagueID int    `json:"leagueId"`
	Name     string `json:"name"`
}

// Season is one season of a team.
type Season struct {
	SeasonID          int       `json:"seasonId"`
	TeamID            int       `json:"teamId"`
	Name              string    `json:"name"`
	StartDateLocal    string    `json:"startDateLocal"`
	StartDateUTC      string    `json:"startDateUtc"`
	StartDateInFuture bool      `json:"startDateInFuture"`
	Activity          *Activity `json:"activity,omitempty"`
	League            *League   `json:"league,omitempty"`
	LeagueDivision    string    `json:"leagueDivision"`
}

// DateTimeInfo carries local, display and UTC renderings of an event's times.
type DateTimeInfo struct {
	TimezoneID                string `json:"timezoneId"`
	StartDateLocal            string `json:"startDateLocal"`
	StartTimeLocal            string `json:"startTimeLocal"`
	StartDateTimeLocal        string `json:"startDateTimeLocal"`
	StartDateLocalDisplay     string `json:"startDateLocalDisplay"`
	StartTimeLocalDisplay     string `json:"startTimeLocalDisplay"`
	StartDateTimeLocalDisplay string `json:"startDateTimeLocalDisplay"`
	StartDateTimeUTC          string `json:"startDateTimeUtc"`
	StartTimeTBD              *bool  `json:"startTimeTBD,omitempty"`
	EndDateLocal              string `json:"endDateLocal"`
	EndTimeLocal              string `json:"endTimeLocal"`
	EndDateTimeLocal          string `json:"endDateTimeLocal"`
	EndDateLocalDisplay       string `json:"endDateLocalDisplay"`
	EndTimeLocalDisplay       string `json:"endTimeLocalDisplay"`
	EndDateTimeLocalDisplay   string `json:"endDateTimeLocalDisplay"`
	EndDateTimeUTC            string `json:"endDateTimeUtc"`
	EndTimeTBD                *bool  `json:"endTimeTBD,omitempty"`
	InPast                    *bool  `json:"inPast,omitempty"`
	InFuture                  *bool  `json:"inFuture,omitempty"`
}

// EventResult is the recorded outcome of a game.
type EventResult struct {
	ScoreEntered   *bool  `json:"scoreEntered,omitempty"`
	Outcome        string `json:"outcome"`
	DHScoreEntered *bool  `json:"dhScoreEntered,omitempty"`
	DHOutcome      string `json:"dhOutcome"`
	Score1         *int   `json:"score1,omitempty"`
	Score2         *int   `json:"score2,omitempty"`
	IsWin          *bool  `json:"isWin,omitempty"`
	IsTie          *bool  `json:"isTie,omitempty"`
	IsLoss         *bool  `json:"isLoss,omitempty"`
	ScoreDisplay   string `json:"scoreDisplay"`
}

// Address is a postal address of a location.
type Address struct {
	AddressLine1        string `json:"addressLine1"`
	AddressLine2        string `json:"addressLine2"`
	City                string `json:"city"`
	StateProvince       string `json:"stateProvince"`
	StateProvinceAbbrev string `json:"stateProvinceAbbrev"`
	PostalCode          string `json:"postalCode"`
	Country             string `json:"country"`
	DisplayMultiLine    string `json:"displayMultiLine"`
	DisplaySingleLine   string `json:"displaySingleLine"`
}

// Labeled is a machine value with its display text.
type Labeled struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

// Location is where an event takes place.
type Location struct {
	LocationID        int      `json:"locationId"`
	Name              string   `json:"name"`
	Surface           *Labeled `json:"surface,omitempty"`
	Lights            *Labeled `json:"lights,omitempty"`
	Address           *Address `json:"address,omitempty"`
	Visibility        string   `json:"visibility"`
	VisibilityDisplay string   `json:"visibilityDisplay"`
	Comments          string   `json:"comments"`
}

// EventTeam identifies the team an event belongs to.
type EventTeam struct {
	TeamID int    `json:"teamId"`
	Name   string `json:"name"`
}

// ShirtColors are the team and opponent colours for an event.
type ShirtColors struct {
	Team     string `json:"team"`
	Opponent string `json:"opponent"`
}

// RSVPStatus is one selectable RSVP choice.
type RSVPStatus struct {
	Status        string `json:"status"`
	StatusDisplay string `json:"statusDisplay"`
}

// RSVPDetails is the current user's RSVP for an event.
type RSVPDetails struct {
	AllowRSVP              bool         `json:"allowRSVP"`
	AllowRSVPRemoval       bool         `json:"allowRsvpRemoval"`
	AllowExtraPlayers      bool         `json:"allowExtraPlayers"`
	AllowedStatuses        []string     `json:"allowedStatuses"`
	AllowedStatusesDisplay []RSVPStatus `json:"allowedStatusesDisplay"`
	Status                 string       `json:"status"`
	StatusDisplay          string       `json:"statusDisplay"`
	StatusDisplayShort     string       `json:"statusDisplayShort"`
	AddlMale               int          `json:"addlMale"`
	AddlMaleDisplay        string       `json:"addlMaleDislpay"`
	AddlFemale             int          `json:"addlFemale"`
	AddlFemaleDisplay      string       `json:"addlFemaleDislpay"`
	Comments               string       `json:"comments"`
}

// RSVPInstance summarises responses for one occurrence of an event.
type RSVPInstance struct {
	EventID        int          `json:"eventId"`
	Label          string       `json:"label"`
	CountsByStatus CountByType  `json:"countsByStatus"`
	CountsByGender CountByType  `json:"countsByGender"`
	UserRSVP       *RSVPDetails `json:"userRsvp,omitempty"`
}

// Event is a game, practice or other scheduled team event.
type Event struct {
	EventID             int            `json:"eventId"`
	Team                *EventTeam     `json:"team,omitempty"`
	SeasonID            int            `json:"seasonId"`
	SeasonName          string         `json:"seasonName"`
	EventType           string         `json:"eventType"`
	EventTypeDisplay    string         `json:"eventTypeDisplay"`
	Status              string         `json:"status"`
	StatusDisplay       string         `json:"statusDisplay"`
	PersonNounSingular  string         `json:"personNounSingular"`
	PersonNounPlural    string         `json:"personNounPlural"`
	Title               string         `json:"title"`
	TitleLabel          string         `json:"titleLabel"`
	HomeAway            string         `json:"homeAway"`
	Result              *EventResult   `json:"result,omitempty"`
	RSVPInstances       []RSVPInstance `json:"rsvpInstances"`
	Comments            string         `json:"comments"`
	OneLineDisplay      string         `json:"oneLineDisplay"`
	OneLineDisplayShort string         `json:"oneLineDisplayShort"`
	MaleGenderDisplay   string         `json:"maleGenderDisplay"`
	FemaleGenderDisplay string         `json:"femaleGenderDisplay"`
	DateTimeInfo        *DateTimeInfo  `json:"dateTimeInfo,omitempty"`
	Location            *Location      `json:"location,omitempty"`
	ShirtColors         *ShirtColors   `json:"shirtColors,omitempty"`
	DateLastUpdatedUTC  string         `json:"dateLastUpdatedUtc"`
}

// AttendanceList is the per-status attendance of one event.
type AttendanceList struct {
	EventID        int           `json:"eventId"`
	CountsByStatus CountByType   `json:"countsByStatus"`
	CountsByGender CountByType   `json:"countsByGender"`
	UserIDsByType  UserIDsByType `json:"userIdsByStatus"`
	Users          []User        `json:"users"`
}

// SaveRSVPResponse is returned by Event_SaveRSVP.
type SaveRSVPResponse struct {
	RSVPSaved     bool   `json:"rsvpSaved"`
	Status        string `json:"status"`
	StatusDisplay string `json:"statusDisplay"`
}

// LinkedUserTeam is a team shared with a linked user.
type LinkedUserTeam struct {
	TeamID int    `json:"teamId"`
	Name   string `json:"name"`
}

// LinkedUser is an account linked to the current user, such as a child's.
type LinkedUser struct {
	FromUserID   *int             `json:"fromUserId,omitempty"`
	ToUserID     *int             `json:"toUserId,omitempty"`
	Username     string           `json:"username"`
	FirstName    string           `json:"firstName"`
	LastName     string           `json:"lastName"`
	FullName     string           `json:"fullName"`
	DisplayName  string           `json:"displayName"`
	IsActive     *bool            `json:"isActive,omitempty"`
	ProfilePhoto *ProfilePhoto    `json:"profilePhoto,omitempty"`
	Teams        []LinkedUserTeam `json:"teams"`
}

// LinkedUsers groups the accounts linked to and from a user.
type LinkedUsers struct {
	LinkedTo   []LinkedUser `json:"linkedTo"`
	LinkedFrom []LinkedUser `json:"linkedFrom"`
}

// User is a Team Cowboy account or roster member.
type User struct {
	UserID             *int          `json:"userId,omitempty"`
	FirstName          string        `json:"firstName"`
	LastName           string        `json:"lastName"`
	FullName           string        `json:"fullName"`
	DisplayName        string        `json:"displayName"`
	EmailAddress1      string        `json:"emailAddress1"`
	EmailAddress2      string        `json:"emailAddress2"`
	Phone1             string        `json:"phone1"`
	Phone2             string        `json:"phone2"`
	Gender             string        `json:"gender"`
	GenderDisplay      string        `json:"genderDisplay"`
	ShirtNumber        string        `json:"shirtNumber"`
	ShirtSize          string        `json:"shirtSize"`
	PantsSize          string        `json:"pantsSize"`
	ProfilePhoto       *ProfilePhoto `json:"profilePhoto,omitempty"`
	TeamMeta           *TeamMetadata `json:"teamMeta,omitempty"`
	LinkedUsers        *LinkedUsers  `json:"linkedUsers,omitempty"`
	DateCreatedUTC     string        `json:"dateCreatedUtc"`
	DateLastUpdatedUTC string        `json:"dateLastUpdatedUtc"`
	DateLastSignInUTC  string        `json:"dateLastSignInUtc"`
	BirthDateMonth     *int          `json:"birthDate_month,omitempty"`
	BirthDateDay       *int          `json:"birthDate_day,omitempty"`
	BirthDateYear      *int          `json:"birthDate_year,omitempty"`
}

// MessageTeamInfo identifies the team a message was posted to.
type MessageTeamInfo struct {
	TeamID int    `json:"teamId"`
	Name   string `json:"name"`
}

// MessageComment is one comment on a message.
type MessageComment struct {
	CommentID      int    `json:"commentId"`
	Comment        string `json:"comment"`
	PostedBy       *User  `json:"postedBy,omitempty"`
	DateCreatedUTC string `json:"dateCreatedUtc"`
}

// MessageUserMetaInfo is the current user's view of a message.
type MessageUserMetaInfo struct {
	IsRead    bool `json:"isRead"`
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
}

// Message is a team message board post.
type Message struct {
	MessageID            int                  `json:"messageId"`
	Title                string               `json:"title"`
	BodyHTML             string               `json:"bodyHtml"`
	BodyText             string               `json:"bodyText"`
	IsPinned             bool                 `json:"isPinned"`
	AllowComments        bool                 `json:"allowComments"`
	CommentCount         int                  `json:"commentCount"`
	Team                 *MessageTeamInfo     `json:"team,omitempty"`
	PostedBy             *User                `json:"postedBy,omitempty"`
	Comments             []MessageComment     `json:"comments"`
	UserMetaInfo         *MessageUserMetaInfo `json:"userMetaInfo,omitempty"`
	DateCreatedLocal     string               `json:"dateCreatedLocal"`
	DateLastUpdatedLocal string               `json:"dateLastUpdatedLocal"`
	DateCreatedUTC       string               `json:"dateCreatedUtc"`
	DateLastUpdatedUTC   string               `json:"dateLastUpdatedUtc"`
}
