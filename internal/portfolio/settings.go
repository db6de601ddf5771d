package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/crud"
	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/store"
)

// SettingsForm holds the scalar settings fields. List entries are edited
// by id through the editor's Add/Update/Remove methods.
type SettingsForm struct {
	FullName        string `json:"fullName" form:"fullName" validate:"required"`
	Title           string `json:"title" form:"title" validate:"required"`
	Bio             string `json:"bio" form:"bio" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Location        string `json:"location" form:"location"`
	ProfileImage    string `json:"profileImage" form:"profileImage"`
	SiteTitle       string `json:"siteTitle" form:"siteTitle" validate:"required"`
	SiteDescription string `json:"siteDescription" form:"siteDescription" validate:"required"`
	Keywords        string `json:"keywords" form:"keywords"`
	OGImage         string `json:"ogImage" form:"ogImage"`
	TwitterHandle   string `json:"twitterHandle" form:"twitterHandle"`
	CustomDomain    string `json:"customDomain" form:"customDomain"`
	AboutMe         string `json:"aboutMe" form:"aboutMe"`
}

// ErrNoEntry is returned when a list entry id is not present.
var ErrNoEntry = errors.New("no such entry")

// SettingsEditor edits the settings singleton. Every Save writes the whole
// object in one merge call; concurrent editors overwrite each other.
type SettingsEditor struct {
	Settings content.Settings
	Pending  bool

	store  store.Store
	notify crud.Notifier
	saved  []func(content.Settings)
}

func NewSettingsEditor(s store.Store, n crud.Notifier) *SettingsEditor {
	if n == nil {
		n = crud.LogNotifier{}
	}
	return &SettingsEditor{Settings: content.DefaultSettings(), store: s, notify: n}
}

// OnSave registers fn to run after every successful save.
func (e *SettingsEditor) OnSave(fn func(content.Settings)) *SettingsEditor {
	e.saved = append(e.saved, fn)
	return e
}

// Load reads the settings singleton, writing the defaults first when it
// does not exist yet.
func (e *SettingsEditor) Load(ctx context.Context) error {
	e.Pending = true
	defer func() { e.Pending = false }()

	s, err := LoadSettings(ctx, e.store)
	if err != nil {
		e.notify.Notify(crud.Notice{Level: crud.Failure, Text: "Failed to fetch settings"})
		return err
	}
	e.Settings = s
	return nil
}

// LoadSettings is the bootstrap read used by the editor. Legacy list entries
// without an id are given one and written back before returning.
func LoadSettings(ctx context.Context, s store.Store) (content.Settings, error) {
	d, err := s.Get(ctx, content.SettingsCollection, content.SettingsID)
	if errors.Is(err, store.ErrNotFound) {
		def := content.DefaultSettings()
		if err := s.SetWithMerge(ctx, content.SettingsCollection, content.SettingsID, def.Fields()); err != nil {
			return content.Settings{}, errs.Fetch("bootstrap settings", err)
		}
		return def, nil
	}
	if err != nil {
		return content.Settings{}, errs.Fetch("get settings", err)
	}
	st, assigned, err := content.DecodeSettingsAssigningIDs(*d)
	if err != nil {
		return content.Settings{}, errs.Fetch("decode settings", err)
	}
	if assigned {
		// persist ids given to legacy entries so later loads address the same entries
		if err := s.SetWithMerge(ctx, content.SettingsCollection, content.SettingsID, st.Fields()); err != nil {
			return content.Settings{}, errs.Fetch("persist settings entry ids", err)
		}
	}
	return st, nil
}

// Form returns the scalar fields for editing.
func (e *SettingsEditor) Form() SettingsForm {
	s := e.Settings
	return SettingsForm{
		FullName:        s.FullName,
		Title:           s.Title,
		Bio:             s.Bio,
		Email:           s.Email,
		Location:        s.Location,
		ProfileImage:    s.ProfileImage,
		SiteTitle:       s.SiteTitle,
		SiteDescription: s.SiteDescription,
		Keywords:        strings.Join(s.Keywords, ", "),
		OGImage:         s.OGImage,
		TwitterHandle:   s.TwitterHandle,
		CustomDomain:    s.CustomDomain,
		AboutMe:         s.AboutMe,
	}
}

// Apply copies the scalar fields of f into the edited settings.
func (e *SettingsEditor) Apply(f SettingsForm) {
	s := &e.Settings
	s.FullName = trim(f.FullName)
	s.Title = trim(f.Title)
	s.Bio = trim(f.Bio)
	s.Email = trim(f.Email)
	s.Location = trim(f.Location)
	s.ProfileImage = trim(f.ProfileImage)
	s.SiteTitle = trim(f.SiteTitle)
	s.SiteDescription = trim(f.SiteDescription)
	s.Keywords = splitList(f.Keywords)
	s.OGImage = trim(f.OGImage)
	s.TwitterHandle = trim(f.TwitterHandle)
	s.CustomDomain = trim(f.CustomDomain)
	s.AboutMe = f.AboutMe
}

// Save validates and writes the whole settings object.
func (e *SettingsEditor) Save(ctx context.Context) error {
	if err := e.Validate(); err != nil {
		e.notify.Notify(crud.Notice{Level: crud.Failure, Text: err.Error()})
		return err
	}
	e.Pending = true
	err := e.store.SetWithMerge(ctx, content.SettingsCollection, content.SettingsID, e.Settings.Fields())
	e.Pending = false
	if err != nil {
		e.notify.Notify(crud.Notice{Level: crud.Failure, Text: "Failed to save settings"})
		return errs.Write("merge settings", err)
	}
	for _, fn := range e.saved {
		fn(e.Settings)
	}
	e.notify.Notify(crud.Notice{Level: crud.Success, Text: "Settings updated successfully"})
	return nil
}

// Validate checks the required scalar fields and every list entry.
func (e *SettingsEditor) Validate() error {
	if err := check(e.Form()); err != nil {
		return err
	}
	for _, l := range e.Settings.SocialLinks {
		if err := checkEntry("socialLinks", l.ID, l); err != nil {
			return err
		}
	}
	for _, ed := range e.Settings.Education {
		if err := checkEntry("education", ed.ID, ed); err != nil {
			return err
		}
	}
	for _, c := range e.Settings.Certifications {
		if err := checkEntry("certifications", c.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func checkEntry(list, id string, v any) error {
	if err := check(v); err != nil {
		var f *errs.Failure
		if errors.As(err, &f) {
			return errs.Validation(fmt.Sprintf("%s[%s].%s", list, id, f.Field), f.Msg)
		}
		return err
	}
	return nil
}

func (e *SettingsEditor) AddEducation(ed content.Education) string {
	ed.ID = content.NewEntryID()
	e.Settings.Education = append(e.Settings.Education, ed)
	return ed.ID
}

func (e *SettingsEditor) UpdateEducation(id string, ed content.Education) error {
	for i := range e.Settings.Education {
		if e.Settings.Education[i].ID == id {
			ed.ID = id
			e.Settings.Education[i] = ed
			return nil
		}
	}
	return ErrNoEntry
}

func (e *SettingsEditor) RemoveEducation(id string) error {
	out, ok := removeByID(e.Settings.Education, id, func(x content.Education) string { return x.ID })
	if !ok {
		return ErrNoEntry
	}
	e.Settings.Education = out
	return nil
}

func (e *SettingsEditor) AddCertification(c content.Certification) string {
	c.ID = content.NewEntryID()
	e.Settings.Certifications = append(e.Settings.Certifications, c)
	return c.ID
}

func (e *SettingsEditor) UpdateCertification(id string, c content.Certification) error {
	for i := range e.Settings.Certifications {
		if e.Settings.Certifications[i].ID == id {
			c.ID = id
			e.Settings.Certifications[i] = c
			return nil
		}
	}
	return ErrNoEntry
}

func (e *SettingsEditor) RemoveCertification(id string) error {
	out, ok := removeByID(e.Settings.Certifications, id, func(x content.Certification) string { return x.ID })
	if !ok {
		return ErrNoEntry
	}
	e.Settings.Certifications = out
	return nil
}

func (e *SettingsEditor) AddSocialLink(l content.SocialLink) string {
	l.ID = content.NewEntryID()
	e.Settings.SocialLinks = append(e.Settings.SocialLinks, l)
	return l.ID
}

func (e *SettingsEditor) UpdateSocialLink(id string, l content.SocialLink) error {
	for i := range e.Settings.SocialLinks {
		if e.Settings.SocialLinks[i].ID == id {
			l.ID = id
			e.Settings.SocialLinks[i] = l
			return nil
		}
	}
	return ErrNoEntry
}

func (e *SettingsEditor) RemoveSocialLink(id string) error {
	out, ok := removeByID(e.Settings.SocialLinks, id, func(x content.SocialLink) string { return x.ID })
	if !ok {
		return ErrNoEntry
	}
	e.Settings.SocialLinks = out
	return nil
}

func removeByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	out := make([]T, 0, len(list))
	found := false
	for _, x := range list {
		if idOf(x) == id {
			found = true
			continue
		}
		out = append(out, x)
	}
	return out, found
}

// ReplaceLists swaps in whole entry lists, as submitted by API clients.
// Entries without an id are treated as new and get one.
func (e *SettingsEditor) ReplaceLists(links []content.SocialLink, edu []content.Education, certs []content.Certification) {
	e.Settings.SocialLinks = []content.SocialLink{}
	for _, l := range links {
		if l.ID == "" {
			e.AddSocialLink(l)
			continue
		}
		e.Settings.SocialLinks = append(e.Settings.SocialLinks, l)
	}
	e.Settings.Education = []content.Education{}
	for _, ed := range edu {
		if ed.ID == "" {
			e.AddEducation(ed)
			continue
		}
		e.Settings.Education = append(e.Settings.Education, ed)
	}
	e.Settings.Certifications = []content.Certification{}
	for _, c := range certs {
		if c.ID == "" {
			e.AddCertification(c)
			continue
		}
		e.Settings.Certifications = append(e.Settings.Certifications, c)
	}
}
