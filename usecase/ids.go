package usecase

import (
	"college-chat/entity"
	"strconv"
	"strings"
)

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// subtractIDs keeps the ids of from that are not in minus, in order.
func subtractIDs(from, minus []uint) []uint {
	drop := make(map[uint]struct{}, len(minus))
	for _, id := range minus {
		drop[id] = struct{}{}
	}
	out := make([]uint, 0, len(from))
	for _, id := range uniqueIDs(from) {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func fileIDs(files []entity.File) []uint {
	ids := make([]uint, 0, len(files))
	for _, file := range files {
		ids = append(ids, file.ID)
	}
	return ids
}

func articleIDs(articles []entity.Article) []uint {
	ids := make([]uint, 0, len(articles))
	for _, article := range articles {
		ids = append(ids, article.ID)
	}
	return ids
}

func joinIDs(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ", ")
}
