// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "github.com/danielhkuo/live-poll/models"

// registry maps live connections to participants, keeping join order
type registry struct {
	byConn map[string]*models.Participant
	order  []string
}

func newRegistry() *registry {
	return &registry{byConn: make(map[string]*models.Participant)}
}

// join registers connID, or updates it in place if it already joined
func (r *registry) join(connID, name string, role models.Role) {
	if p, ok := r.byConn[connID]; ok {
		p.Name = name
		p.Role = role
		return
	}
	r.byConn[connID] = &models.Participant{ConnectionID: connID, Name: name, Role: role}
	r.order = append(r.order, connID)
}

// leave removes connID and reports whether it was registered
func (r *registry) leave(connID string) bool {
	if _, ok := r.byConn[connID]; !ok {
		return false
	}
	delete(r.byConn, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *registry) get(connID string) (models.Participant, bool) {
	p, ok := r.byConn[connID]
	if !ok {
		return models.Participant{}, false
	}
	return *p, true
}

// connectionsNamed returns every connection using name, in join order
func (r *registry) connectionsNamed(name string) []string {
	var ids []string
	for _, id := range r.order {
		if r.byConn[id].Name == name {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *registry) counts() models.UserCountPayload {
	var c models.UserCountPayload
	for _, p := range r.byConn {
		switch p.Role {
		case models.RoleTeacher:
			c.Teachers++
		case models.RoleStudent:
			c.Students++
		}
	}
	return c
}

// list returns participants in join order
func (r *registry) list() []models.Participant {
	out := make([]models.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byConn[id])
	}
	return out
}

// students returns the display names of connected students
func (r *registry) students() []string {
	var names []string
	for _, id := range r.order {
		if p := r.byConn[id]; p.Role == models.RoleStudent {
			names = append(names, p.Name)
		}
	}
	return names
}
