package institution

import (
	"hash/fnv"
	"sort"
	"time"

	"github.com/gosimple/slug"

	"github.com/okian/vantage/internal/domain/model"
)

// NamePrefix is prepended to the slugged university name to form the
// institution's stable name.
const NamePrefix = "university."

// Membership links one user to one competition under an institution.
type Membership struct {
	UserID        model.UserID
	CompetitionID model.CompetitionID
	InstitutionID model.InstitutionID
	CreatedAt     time.Time
}

// Directory holds the institutions derivable from one dataset together
// with user membership. Institution IDs derive from the stable slugged
// name, so an institution keeps its ID across runs as the dataset
// grows.
type Directory struct {
	institutions []model.Institution
	byName       map[string]model.InstitutionID
	memberOf     map[model.UserID]model.InstitutionID
	members      map[model.InstitutionID][]model.UserID
	memberships  []Membership
}

// BuildDirectory resolves every participation and every declared user
// affiliation through the registry. The first resolved participation of
// a university creates its institution; later ones join it. A user's
// institution is the one of their most recent resolved participation,
// falling back to their declared affiliation when they never
// participated under a university.
func BuildDirectory(reg *Registry, users []model.User, participations []model.Participation, now time.Time) *Directory {
	d := &Directory{
		byName:   make(map[string]model.InstitutionID),
		memberOf: make(map[model.UserID]model.InstitutionID),
		members:  make(map[model.InstitutionID][]model.UserID),
	}

	sorted := make([]model.Participation, len(participations))
	copy(sorted, participations)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		if sorted[i].UserID != sorted[j].UserID {
			return sorted[i].UserID < sorted[j].UserID
		}
		return sorted[i].CompetitionID < sorted[j].CompetitionID
	})

	latest := make(map[model.UserID]Membership)
	for _, p := range sorted {
		uni, ok := reg.Resolve(p.University)
		if !ok {
			continue
		}
		id := d.ensure(uni, now)
		m := Membership{
			UserID:        p.UserID,
			CompetitionID: p.CompetitionID,
			InstitutionID: id,
			CreatedAt:     p.CreatedAt,
		}
		d.memberships = append(d.memberships, m)
		if prev, ok := latest[p.UserID]; !ok || m.CreatedAt.After(prev.CreatedAt) {
			latest[p.UserID] = m
		}
	}

	for userID, m := range latest {
		d.memberOf[userID] = m.InstitutionID
	}

	// Declared affiliations cover users without a resolved participation.
	sortedUsers := make([]model.User, len(users))
	copy(sortedUsers, users)
	sort.Slice(sortedUsers, func(i, j int) bool { return sortedUsers[i].ID < sortedUsers[j].ID })
	for _, u := range sortedUsers {
		if _, ok := d.memberOf[u.ID]; ok {
			continue
		}
		uni, ok := reg.Resolve(u.University)
		if !ok {
			continue
		}
		d.memberOf[u.ID] = d.ensure(uni, now)
	}

	for userID, instID := range d.memberOf {
		d.members[instID] = append(d.members[instID], userID)
	}
	for _, ids := range d.members {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	return d
}

func (d *Directory) ensure(uni model.University, now time.Time) model.InstitutionID {
	name := NamePrefix + slug.Make(uni.Name)
	if id, ok := d.byName[name]; ok {
		return id
	}

	id := instID(name)
	d.byName[name] = id
	d.institutions = append(d.institutions, model.Institution{
		ID:          id,
		Name:        name,
		DisplayName: uni.Name,
		Country:     uni.Country,
		WebsiteURL:  uni.URL,
		CreatedAt:   now,
	})
	return id
}

// instID derives the institution ID from its stable name. A positional
// ID would shift whenever an earlier-dated participation for a new
// university enters the dataset, breaking per-entity position history.
func instID(name string) model.InstitutionID {
	h := fnv.New64a()
	h.Write([]byte(name))
	return model.InstitutionID(h.Sum64() & (1<<63 - 1))
}

// Institutions returns every institution in creation order.
func (d *Directory) Institutions() []model.Institution { return d.institutions }

// MemberOf returns the institution a user belongs to, false when
// unaffiliated.
func (d *Directory) MemberOf(userID model.UserID) (model.InstitutionID, bool) {
	id, ok := d.memberOf[userID]
	return id, ok
}

// Members returns an institution's user IDs in ascending order.
func (d *Directory) Members(id model.InstitutionID) []model.UserID { return d.members[id] }

// Memberships returns every resolved (user, competition) membership,
// for per-competition institution participation summaries.
func (d *Directory) Memberships() []Membership { return d.memberships }
