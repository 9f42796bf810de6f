package services

import (
	"context"
	"sync"

	"github.com/promorang/promorang-cli/pkg/identity"
	"github.com/promorang/promorang-cli/pkg/models"
	"github.com/promorang/promorang-cli/pkg/viewstate"
)

// Branch names one request of the content detail fan-out.
type Branch string

const (
	BranchContent     Branch = "content"
	BranchSponsorship Branch = "sponsorship"
	BranchMetrics     Branch = "metrics"
	BranchViewer      Branch = "viewer"
	BranchWallets     Branch = "wallets"
)

// Branches lists every fan-out branch.
var Branches = []Branch{BranchContent, BranchSponsorship, BranchMetrics, BranchViewer, BranchWallets}

// ContentDetail is the view state of a content detail screen. Nil fields have
// not resolved (yet, or at all when Errors holds their branch).
type ContentDetail struct {
	ContentID   string
	Content     *models.Content
	Sponsorship *models.Sponsorship
	Metrics     *models.ContentMetrics
	Viewer      *models.SessionUser
	Wallets     []models.Wallet

	// Ownership tells whether the viewer created the content.
	Ownership identity.Ownership

	Errors map[Branch]error
}

// Err returns the error of a branch, or nil.
func (d ContentDetail) Err(b Branch) error {
	return d.Errors[b]
}

// Settled reports whether every branch has either resolved or failed.
func (d ContentDetail) Settled() bool {
	for _, b := range Branches {
		if d.Errors[b] != nil {
			continue
		}
		switch b {
		case BranchContent:
			if d.Content == nil {
				return false
			}
		case BranchSponsorship:
			if d.Sponsorship == nil {
				return false
			}
		case BranchMetrics:
			if d.Metrics == nil {
				return false
			}
		case BranchViewer:
			if d.Viewer == nil {
				return false
			}
		case BranchWallets:
			if d.Wallets == nil {
				return false
			}
		}
	}
	return true
}

// creator is the content's creator as a profile, for ownership checks. Demo
// content has no creator.
func (d *ContentDetail) creator() *models.ProfileUser {
	if d.Content == nil || d.Content.IsDemo {
		return nil
	}
	return &models.ProfileUser{ID: d.Content.CreatorID, Username: d.Content.CreatorUsername}
}

// fail records err for b on a fresh map. Snapshots share the previous map
// with readers outside the holder lock, so it is never written in place.
func (d *ContentDetail) fail(b Branch, err error) {
	errs := make(map[Branch]error, len(d.Errors)+1)
	for k, v := range d.Errors {
		errs[k] = v
	}
	errs[b] = err
	d.Errors = errs
}

// LoadDetail fetches content, sponsorship, metrics, viewer and wallets
// concurrently and merges each result into holder as it arrives. A failed
// branch records its error and never cancels the others. Results arriving
// after holder is closed are discarded. LoadDetail returns once every branch
// has settled, with the holder's final snapshot; a nil holder gets a private
// one.
func (s *ContentService) LoadDetail(ctx context.Context, id string, holder *viewstate.Holder[ContentDetail]) ContentDetail {
	if holder == nil {
		holder = viewstate.New(ContentDetail{ContentID: id})
	}

	var wg sync.WaitGroup
	run := func(b Branch, fetch func() (func(*ContentDetail), error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			apply, err := fetch()
			ok := holder.Update(func(d *ContentDetail) {
				if err != nil {
					d.fail(b, err)
					return
				}
				apply(d)
				d.Ownership = identity.Resolve(d.creator(), d.Viewer)
			})
			if !ok {
				s.opts.log.Debugf("content %s: %s result discarded, view closed", id, b)
			} else if err != nil {
				s.opts.log.Debugf("content %s: %s failed: %v", id, b, err)
			}
		}()
	}

	run(BranchContent, func() (func(*ContentDetail), error) {
		c, err := s.GetContent(ctx, id)
		return func(d *ContentDetail) { d.Content = &c }, err
	})
	run(BranchSponsorship, func() (func(*ContentDetail), error) {
		sp, err := s.GetSponsorship(ctx, id)
		return func(d *ContentDetail) { d.Sponsorship = &sp }, err
	})
	run(BranchMetrics, func() (func(*ContentDetail), error) {
		m, err := s.GetMetrics(ctx, id)
		return func(d *ContentDetail) { d.Metrics = &m }, err
	})
	run(BranchViewer, func() (func(*ContentDetail), error) {
		u, err := s.users.Me(ctx)
		return func(d *ContentDetail) { d.Viewer = &u }, err
	})
	run(BranchWallets, func() (func(*ContentDetail), error) {
		w, err := s.users.Wallets(ctx)
		return func(d *ContentDetail) { d.Wallets = w }, err
	})

	wg.Wait()
	return holder.Snapshot()
}
