// Package state records what the last render of each page produced.
//
// A watch session or a cron job renders pages unattended; the status file
// lets other tools see when each page was last written and which sections
// failed, without parsing the page.
//
//	repo := state.NewFileRepository("/srv/dashboard/.dugout")
//
//	s, err := repo.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	s.Record(state.PageStatus{Page: "index", RunID: id, RenderedAt: time.Now()})
//	if err := repo.Save(ctx, s); err != nil {
//	    return err
//	}
//
// State JSON uses snake_case field names.
package state
