package migrate

// Keep this in order of execution, oldest to newest.
var migrations = []Migration{
	createDirectoryTables,
	createOrganizationTables,
	createMeetingTables,
	createNotificationTables,
}

var createDirectoryTables = Migration{
	Version: 1,
	Name:    "create_directory_tables",
	Statements: []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			avatar_url TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			organizer_id BIGINT NOT NULL,
			organization_id BIGINT,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_organization ON events (organization_id)`,
		`CREATE TABLE IF NOT EXISTS event_participants (
			event_id BIGINT NOT NULL REFERENCES events (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			joined_at TIMESTAMP NOT NULL,
			PRIMARY KEY (event_id, user_id)
		)`,
	},
}

var createOrganizationTables = Migration{
	Version: 2,
	Name:    "create_organization_tables",
	Statements: []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			logo TEXT,
			website TEXT,
			settings TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS organization_members (
			organization_id BIGINT NOT NULL REFERENCES organizations (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			joined_at TIMESTAMP NOT NULL,
			PRIMARY KEY (organization_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_organization_members_user ON organization_members (user_id)`,
		`CREATE TABLE IF NOT EXISTS join_requests (
			id BIGINT PRIMARY KEY,
			organization_id BIGINT NOT NULL REFERENCES organizations (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			requested_at TIMESTAMP NOT NULL,
			reviewed_at TIMESTAMP,
			reviewed_by BIGINT
		)`,
		// At most one pending request per (organization, user).
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_join_requests_pending
			ON join_requests (organization_id, user_id) WHERE status = 'pending'`,
	},
}

var createMeetingTables = Migration{
	Version: 3,
	Name:    "create_meeting_tables",
	Statements: []string{
		`CREATE TABLE IF NOT EXISTS meetings (
			id BIGINT PRIMARY KEY,
			event_id BIGINT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			scheduled_time TIMESTAMP NOT NULL,
			duration INTEGER NOT NULL,
			meeting_link TEXT,
			created_by BIGINT,
			status TEXT NOT NULL,
			flagged_for_deletion BOOLEAN NOT NULL DEFAULT FALSE,
			flagged_by BIGINT,
			flagged_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_meetings_event ON meetings (event_id)`,
		`CREATE TABLE IF NOT EXISTS meeting_participants (
			meeting_id BIGINT NOT NULL REFERENCES meetings (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			checked_in BOOLEAN NOT NULL DEFAULT FALSE,
			checked_in_at TIMESTAMP,
			joined_at TIMESTAMP NOT NULL,
			PRIMARY KEY (meeting_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_meeting_participants_user ON meeting_participants (user_id)`,
		`CREATE TABLE IF NOT EXISTS meeting_agenda_items (
			id BIGINT PRIMARY KEY,
			meeting_id BIGINT NOT NULL REFERENCES meetings (id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			duration INTEGER,
			order_index INTEGER NOT NULL,
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meeting_documents (
			id BIGINT PRIMARY KEY,
			meeting_id BIGINT NOT NULL REFERENCES meetings (id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			type TEXT NOT NULL,
			created_by BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	},
}

var createNotificationTables = Migration{
	Version: 4,
	Name:    "create_notification_tables",
	Statements: []string{
		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGINT PRIMARY KEY,
			recipient_id BIGINT NOT NULL,
			sender_id BIGINT,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			related_entity_id BIGINT,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_id, is_read)`,
	},
}
