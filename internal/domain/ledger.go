package domain

import "time"

// Day identifies a calendar date at day granularity. Two instants belong to
// the same Day exactly when they fall on the same calendar date; 23:59 and
// 00:01 the next minute are different days.
type Day string

// DayOf derives the Day for an instant in that instant's location.
func DayOf(t time.Time) Day {
	return Day(t.Format("2006-01-02"))
}

// AccessLedger tracks which content a user has viewed today and how much of
// the daily allowance that consumed. The daily counts always equal the
// cardinality of the matching set; the lifetime totals only grow and are
// never consulted for quota decisions.
type AccessLedger struct {
	LastRollover          Day
	ArticlesToday         []string
	VideosToday           []string
	DailyArticleCount     int
	DailyVideoCount       int
	LifetimeArticlesRead  int
	LifetimeVideosWatched int
}

// NewAccessLedger returns an empty ledger anchored to the given day.
func NewAccessLedger(today Day) AccessLedger {
	return AccessLedger{LastRollover: today}
}

// Reconcile performs the lazy day rollover: if the ledger was last touched on
// a different calendar day it discards the per-day sets, zeroes the daily
// counts and advances LastRollover. Rollover is destructive; prior-day
// repeat-view information is gone once it runs. Reports whether the ledger
// changed. There is no scheduled reset, every quota-touching operation calls
// Reconcile first.
func (l *AccessLedger) Reconcile(today Day) bool {
	if l.LastRollover == today {
		return false
	}
	l.ArticlesToday = nil
	l.VideosToday = nil
	l.DailyArticleCount = 0
	l.DailyVideoCount = 0
	l.LastRollover = today
	return true
}

// HasAccessed reports whether contentID has already been counted against
// today's quota for the given content type.
func (l *AccessLedger) HasAccessed(ct ContentType, contentID string) bool {
	for _, id := range l.accessedToday(ct) {
		if id == contentID {
			return true
		}
	}
	return false
}

// CountFor returns today's consumed quota for the given content type.
func (l *AccessLedger) CountFor(ct ContentType) int {
	switch ct {
	case ContentTypeArticle:
		return l.DailyArticleCount
	case ContentTypeVideo:
		return l.DailyVideoCount
	}
	return 0
}

// Record counts a view of contentID against today's quota. Recording the
// same id twice on the same day is a no-op, so a repeat view never
// increments the count. Reports whether the ledger changed.
func (l *AccessLedger) Record(ct ContentType, contentID string, today Day) bool {
	l.Reconcile(today)
	if l.HasAccessed(ct, contentID) {
		return false
	}
	switch ct {
	case ContentTypeArticle:
		l.ArticlesToday = append(l.ArticlesToday, contentID)
		l.DailyArticleCount++
		l.LifetimeArticlesRead++
	case ContentTypeVideo:
		l.VideosToday = append(l.VideosToday, contentID)
		l.DailyVideoCount++
		l.LifetimeVideosWatched++
	default:
		return false
	}
	return true
}

func (l *AccessLedger) accessedToday(ct ContentType) []string {
	if ct == ContentTypeVideo {
		return l.VideosToday
	}
	return l.ArticlesToday
}
