package normalize

import "log"

// Items unwraps the envelope variations the backends use for list responses:
// a bare array, {"items": [...]} or {"data": [...]}. A single object is
// treated as a one-element batch. Anything else is an empty batch.
func Items(raw any) []any {
	switch t := raw.(type) {
	case []any:
		return t
	case map[string]any:
		if list, ok := t["items"].([]any); ok {
			return list
		}
		if list, ok := t["data"].([]any); ok {
			return list
		}
		return []any{t}
	}
	return nil
}

// DecodePost builds a canonical post from one raw record. The second return is
// false when no identifier can be derived, in which case the batch decoders
// drop the record.
func DecodePost(raw any) (Post, bool) {
	id, ok := identifier(raw)
	if !ok {
		return Post{}, false
	}
	src, _ := raw.(map[string]any)
	if src == nil {
		src = map[string]any{}
	}

	return Post{
		ID:           id,
		AuthorName:   pickString(src, "author.name", "author.username", "authorName", "user.name"),
		CircleNames:  pickNames(src, "circles", "circleNames"),
		CreatedAt:    pickTime(src, "createdAt", "created_at", "timestamp"),
		Title:        pickString(src, "title", "media.title", "movieTitle"),
		Year:         pickInt(src, "year", "media.year"),
		MediaType:    postMediaType(src, "mediaType", "media.type", "type"),
		Rating:       pickRating(src, "rating", "stars"),
		Body:         stripHTML(pickString(src, "body", "text", "review")),
		Services:     pickNames(src, "services", "streamingServices"),
		LikeCount:    pickCount(src, "likeCount", "likes"),
		CommentCount: pickCount(src, "commentCount", "comments"),
		ImageURL:     pickString(src, "imageUrl", "image", "posterUrl"),
	}, true
}

// DecodePosts decodes a whole response. Records without an identifier are
// dropped from the batch; the drop count is logged, never surfaced as an
// error.
func DecodePosts(raw any) []Post {
	items := Items(raw)
	posts := make([]Post, 0, len(items))
	dropped := 0
	for _, item := range items {
		post, ok := DecodePost(item)
		if !ok {
			dropped++
			continue
		}
		posts = append(posts, post)
	}
	if dropped > 0 {
		log.Printf("normalize: dropped %d of %d posts without identifiers", dropped, len(items))
	}
	return posts
}

func DecodeViewing(raw any) (Viewing, bool) {
	id, ok := identifier(raw)
	if !ok {
		return Viewing{}, false
	}
	src, _ := raw.(map[string]any)
	if src == nil {
		src = map[string]any{}
	}

	return Viewing{
		ID:         id,
		MediaType:  viewingMediaType(src, "mediaType", "media_type", "type"),
		ExternalID: pickScalar(src, "externalId", "external_id", "tmdbId"),
		Title:      pickString(src, "title", "displayTitle", "name"),
		WatchedAt:  pickTime(src, "watchedAt", "watched_at", "loggedAt", "createdAt"),
		Rating:     pickRating(src, "rating", "stars"),
		Comment:    pickString(src, "comment", "notes"),
		PosterURL:  pickString(src, "posterUrl", "poster_url", "poster"),
	}, true
}

func DecodeViewings(raw any) []Viewing {
	items := Items(raw)
	viewings := make([]Viewing, 0, len(items))
	dropped := 0
	for _, item := range items {
		viewing, ok := DecodeViewing(item)
		if !ok {
			dropped++
			continue
		}
		viewings = append(viewings, viewing)
	}
	if dropped > 0 {
		log.Printf("normalize: dropped %d of %d viewings without identifiers", dropped, len(items))
	}
	return viewings
}

// DecodeMember accepts full member objects as well as the bare id strings
// older circle payloads carry.
func DecodeMember(raw any) (Member, bool) {
	id, ok := identifier(raw)
	if !ok {
		return Member{}, false
	}
	src, _ := raw.(map[string]any)
	if src == nil {
		src = map[string]any{}
	}

	return Member{
		ID:        id,
		Name:      pickString(src, "name", "displayName"),
		Username:  pickString(src, "username", "handle"),
		AvatarURL: pickString(src, "avatarUrl", "avatar_url", "avatar"),
	}, true
}

func DecodeMembers(raw any) []Member {
	items := Items(raw)
	members := make([]Member, 0, len(items))
	dropped := 0
	for _, item := range items {
		member, ok := DecodeMember(item)
		if !ok {
			dropped++
			continue
		}
		members = append(members, member)
	}
	if dropped > 0 {
		log.Printf("normalize: dropped %d of %d members without identifiers", dropped, len(items))
	}
	return members
}

func DecodeCircle(raw any) (Circle, bool) {
	id, ok := identifier(raw)
	if !ok {
		return Circle{}, false
	}
	src, _ := raw.(map[string]any)
	if src == nil {
		src = map[string]any{}
	}

	members := []Member{}
	if v, ok := pick(src, "members"); ok {
		members = DecodeMembers(v)
	}

	return Circle{
		ID:          id,
		Name:        pickString(src, "name", "title"),
		Description: pickString(src, "description", "about"),
		InviteCode:  pickString(src, "inviteCode", "invite_code"),
		Members:     members,
	}, true
}

func DecodeService(raw any) (Service, bool) {
	id, ok := identifier(raw)
	if !ok {
		return Service{}, false
	}
	src, _ := raw.(map[string]any)
	if src == nil {
		src = map[string]any{}
	}

	return Service{
		ID:              id,
		Name:            pickString(src, "name", "title"),
		ProviderID:      pickScalar(src, "providerId", "provider_id", "externalProviderId"),
		DisplayPriority: pickInt(src, "displayPriority", "display_priority", "priority"),
		LogoPath:        pickString(src, "logoPath", "logo_path", "logo"),
	}, true
}

func DecodeServices(raw any) []Service {
	items := Items(raw)
	services := make([]Service, 0, len(items))
	dropped := 0
	for _, item := range items {
		service, ok := DecodeService(item)
		if !ok {
			dropped++
			continue
		}
		services = append(services, service)
	}
	if dropped > 0 {
		log.Printf("normalize: dropped %d of %d services without identifiers", dropped, len(items))
	}
	return services
}

// DecodeProfile has no identifier requirement: /me always refers to the
// session owner, so a malformed payload degrades to empty fields.
func DecodeProfile(raw any) Profile {
	src, _ := raw.(map[string]any)
	if src == nil {
		src = map[string]any{}
	}

	return Profile{
		Name:      pickString(src, "name", "displayName"),
		Username:  pickString(src, "username", "handle"),
		AvatarURL: pickString(src, "avatarUrl", "avatar_url", "avatar"),
	}
}
