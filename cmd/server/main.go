package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"venuedesk/internal/adapters/email"
	web "venuedesk/internal/adapters/http"
	"venuedesk/internal/adapters/http/perf"
	"venuedesk/internal/adapters/oauth"
	"venuedesk/internal/adapters/storage"
	accessStore "venuedesk/internal/adapters/storage/access"
	auditStore "venuedesk/internal/adapters/storage/audit"
	"venuedesk/internal/adapters/storage/cache"
	memberStore "venuedesk/internal/adapters/storage/member"
	reservationStore "venuedesk/internal/adapters/storage/reservation"
	"venuedesk/internal/adapters/storage/sheets"
	"venuedesk/internal/application/orchestrators"
	"venuedesk/internal/config"
	"venuedesk/internal/domain/audit"
	"venuedesk/internal/domain/member"
	"venuedesk/internal/domain/reservation"
	"venuedesk/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// localSpreadsheet stands in for spreadsheet ids on the SQLite backend.
const localSpreadsheet = "local"

// worksheets lists every worksheet the app opens, keyed by its role.
type worksheets struct {
	reservations   storage.SheetRef
	members        storage.SheetRef
	access         storage.SheetRef
	accessLog      storage.SheetRef
	reservationLog storage.SheetRef
}

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger.Init(cfg.Log)

	sections, err := config.LoadSections(cfg.SecretsFile)
	if err != nil {
		log.Fatalf("failed to load secrets: %v", err)
	}
	local := cfg.Backend == config.BackendSQLite
	refs, err := resolveWorksheets(sections, local)
	if err != nil {
		log.Fatalf("failed to resolve worksheets: %v", err)
	}

	ctx := context.Background()
	collector := perf.NewCollector(perf.DefaultRingSize)

	var opener storage.Opener
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		if err := storage.MigrateDB(ctx, db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		opener = storage.NewSQLiteOpener(storage.NewTimedDB(db, collector))
	case config.BackendSheets:
		creds, err := sections.SectionJSON(config.SectionServiceAccount)
		if err != nil {
			log.Fatalf("failed to load service account: %v", err)
		}
		opener, err = sheets.NewOpener(ctx, creds)
		if err != nil {
			log.Fatalf("failed to connect to sheets: %v", err)
		}
	default:
		log.Fatalf("unknown backend %q", cfg.Backend)
	}
	opener = storage.TimedOpener(opener, collector)

	// Only the high-read worksheets are cached; the allow-list and logs always hit the backend.
	if cfg.CacheEnabled() {
		if rdb := cache.NewClient(ctx, cfg.Redis); rdb != nil {
			defer rdb.Close()
			cached := map[storage.SheetRef]bool{refs.reservations: true, refs.members: true}
			opener = cache.Opener(opener, rdb, cfg.CacheTTL, func(ref storage.SheetRef) bool { return cached[ref] })
		}
	}

	open := func(ref storage.SheetRef) storage.Table {
		t, err := opener.Open(ctx, ref)
		if err != nil {
			log.Fatalf("failed to open worksheet %s: %v", ref, err)
		}
		return t
	}
	reservationTable := open(refs.reservations)
	memberTable := open(refs.members)
	accessTable := open(refs.access)
	accessLogTable := open(refs.accessLog)
	reservationLogTable := open(refs.reservationLog)

	approved := accessStore.NewSheetStore(accessTable)
	stores := &web.Stores{
		Reservations: reservationStore.NewSheetStore(reservationTable),
		Members:      memberStore.NewSheetStore(memberTable),
		Audit:        auditStore.NewSheetLogger(accessLogTable, reservationLogTable),
		Access:       approved,
	}

	if local {
		seed := orchestrators.SeedSheetsDeps{
			Tables: []orchestrators.SeedTable{
				{Name: refs.reservations.Worksheet, Table: reservationTable, Header: reservation.Header},
				{Name: refs.members.Worksheet, Table: memberTable, Header: member.Columns},
				{Name: refs.access.Worksheet, Table: accessTable, Header: accessStore.Header},
				{Name: refs.accessLog.Worksheet, Table: accessLogTable, Header: audit.Columns},
				{Name: refs.reservationLog.Worksheet, Table: reservationLogTable, Header: audit.Columns},
			},
			Access:         approved,
			ApprovedEmails: cfg.DevApprovedEmails,
		}
		if err := orchestrators.ExecuteSeedSheets(ctx, seed); err != nil {
			log.Fatalf("failed to seed local worksheets: %v", err)
		}
	}

	var sender orchestrators.Notifier
	if cfg.ResendKey != "" {
		sender = email.NewResendSender(cfg.ResendKey, cfg.NotifyFrom)
		slog.Info("email_sender_configured", "provider", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() && cfg.NotifyTo != "" {
			slog.Warn("email_disabled", "hint", "set VENUEDESK_RESEND_KEY to deliver reservation notices")
		}
	}
	var notifyTo []string
	if cfg.NotifyTo != "" {
		notifyTo = []string{cfg.NotifyTo}
	}

	clientID, err := sections.Require(config.SectionGoogleOAuth, "GOOGLE_CLIENT_ID")
	if err != nil {
		log.Fatalf("failed to configure login: %v", err)
	}
	oauthClient := oauth.New(oauth.Config{
		ClientID:     clientID,
		ClientSecret: sections.Get(config.SectionGoogleOAuth, "GOOGLE_CLIENT_SECRET", ""),
		RedirectURI:  sections.Get(config.SectionGoogleOAuth, "REDIRECT_URI", "http://localhost:8080/"),
	})

	mux, err := web.NewMux(web.Options{
		CSRFKeyHex:     cfg.CSRFKeyHex,
		Production:     cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		SessionTimeout: cfg.SessionTimeout,
		OAuth:          oauthClient,
		Notify:         orchestrators.NotifyDeps{Sender: sender, To: notifyTo},
	}, stores, collector)
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "backend", cfg.Backend, "schema", storage.LatestSchemaVersion())
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// resolveWorksheets reads every worksheet location from the secrets sections.
// On the local backend missing keys fall back to fixed names.
func resolveWorksheets(s *config.Sections, local bool) (worksheets, error) {
	var w worksheets
	locations := []struct {
		dst                      *storage.SheetRef
		section, sheetKey, wsKey string
		fallback                 string
	}{
		{&w.reservations, config.SectionReservations, "RESERVATION_SHEET", "RESERVATION_WORKSHEET", "Reservations"},
		{&w.members, config.SectionMembership, "MEMBERSHIP_SHEET", "MEMBERSHIP_WORKSHEET", "Members"},
		{&w.access, config.SectionAccessControl, "ACCESS_CONTROL_SHEET", "ACCESS_CONTROL_WORKSHEET", "ApprovedEmails"},
		{&w.accessLog, config.SectionLogging, "LOGGER_SHEET", "LOGGER_WORKSHEET_MEMBERSHIP", "AccessLog"},
		{&w.reservationLog, config.SectionLogging, "LOGGER_SHEET", "LOGGER_WORKSHEET_RESERVATION", "ReservationLog"},
	}
	for _, sp := range locations {
		if local {
			*sp.dst = storage.SheetRef{
				SpreadsheetID: s.Get(sp.section, sp.sheetKey, localSpreadsheet),
				Worksheet:     s.Get(sp.section, sp.wsKey, sp.fallback),
			}
			continue
		}
		loc, err := s.Sheet(sp.section, sp.sheetKey, sp.wsKey)
		if err != nil {
			return worksheets{}, err
		}
		*sp.dst = storage.SheetRef{SpreadsheetID: loc.SpreadsheetID, Worksheet: loc.Worksheet}
	}
	return w, nil
}
