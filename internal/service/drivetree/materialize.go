package drivetree

import (
	models "materihub/internal/domain/models/drivetree"
)

// Materialize builds the children of rootID from a flat item list.
//
// Two passes: group items by parent id keeping flat-list order, then walk down
// from rootID attaching each folder's group as its Children. The result is a
// pure function of the flat list, so rebuilding after any change to the flat
// list is the only way to keep both representations consistent.
// Items whose parent is not reachable from rootID are not part of the tree.
func Materialize(flat []models.Item, rootID string) []models.Item {
	byParent := make(map[string][]models.Item)
	for _, item := range flat {
		if item.ParentID == nil {
			continue
		}
		item.Children = nil
		byParent[*item.ParentID] = append(byParent[*item.ParentID], item)
	}

	visited := map[string]bool{rootID: true}
	return attachChildren(byParent, rootID, visited)
}

func attachChildren(byParent map[string][]models.Item, parentID string, visited map[string]bool) []models.Item {
	group := byParent[parentID]
	nodes := make([]models.Item, 0, len(group))
	for _, item := range group {
		if item.IsFolder() {
			// A folder listed under two parents (Drive shortcuts, multi-parent files)
			// only expands the first time it is reached.
			if visited[item.ID] {
				item.Children = []models.Item{}
			} else {
				visited[item.ID] = true
				item.Children = attachChildren(byParent, item.ID, visited)
			}
		}
		nodes = append(nodes, item)
	}
	return nodes
}

// Flatten walks a tree in depth-first pre-order and returns its items without
// children. Each item's ParentID is set from its position in the tree, with
// top-level items pointing at rootID.
func Flatten(tree []models.Item, rootID string) []models.Item {
	var flat []models.Item
	var walk func(items []models.Item, parentID string)
	walk = func(items []models.Item, parentID string) {
		for _, item := range items {
			children := item.Children
			pid := parentID
			item.ParentID = &pid
			item.Children = nil
			flat = append(flat, item)
			if len(children) > 0 {
				walk(children, item.ID)
			}
		}
	}
	walk(tree, rootID)
	return flat
}

// FilterKind returns the items of one kind in their original order
func FilterKind(items []models.Item, kind models.Kind) []models.Item {
	out := make([]models.Item, 0)
	for _, item := range items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// CollectKind is FilterKind over a materialized tree, in depth-first pre-order
func CollectKind(tree []models.Item, kind models.Kind) []models.Item {
	out := make([]models.Item, 0)
	var walk func(items []models.Item)
	walk = func(items []models.Item) {
		for _, item := range items {
			if item.Kind == kind {
				leaf := item
				leaf.Children = nil
				out = append(out, leaf)
			}
			walk(item.Children)
		}
	}
	walk(tree)
	return out
}

// CountItems returns the number of nodes in a tree, folders included
func CountItems(tree []models.Item) int {
	n := 0
	for _, item := range tree {
		n += 1 + CountItems(item.Children)
	}
	return n
}
