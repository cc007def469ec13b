package etf

import (
	"encoding/binary"
	"fmt"
)

// TreeNode is a tag-labeled parse tree produced by ParseTree. Unlike Decode,
// it defers value interpretation: leaf nodes carry their raw payload bytes,
// and callers inspect Tag/Children/Keys without committing to a concrete Go
// type. Used for logging and selectively decoding nested frames (spec
// §4.1).
type TreeNode struct {
	Tag      Tag
	Raw      []byte      // raw payload bytes for scalar tags
	Children []*TreeNode // element nodes for tuple/list
	Keys     []*TreeNode // key nodes, parallel to Children, for map tags
}

// String renders a compact human-readable summary, suitable for log lines.
func (n *TreeNode) String() string {
	switch n.Tag {
	case TagMap:
		return fmt.Sprintf("map(%d entries)", len(n.Children))
	case TagList:
		return fmt.Sprintf("list(%d elems)", len(n.Children))
	case TagSmallTuple, TagLargeTuple:
		return fmt.Sprintf("tuple(%d elems)", len(n.Children))
	case TagNil:
		return "nil"
	default:
		return fmt.Sprintf("tag=%d raw=%d bytes", n.Tag, len(n.Raw))
	}
}

// ParseTree parses a versioned ETF byte string into a TreeNode without
// interpreting scalar payloads.
func ParseTree(data []byte) (*TreeNode, error) {
	if len(data) < 1 {
		return nil, ErrShortBuffer
	}
	if data[0] != Version {
		return nil, ErrBadVersion
	}
	node, _, err := parseTreeNode(data[1:])
	return node, err
}

func parseTreeNode(data []byte) (*TreeNode, []byte, error) {
	if len(data) < 1 {
		return nil, nil, ErrShortBuffer
	}
	tag := Tag(data[0])
	data = data[1:]

	switch tag {
	case TagNewFloat:
		return takeRaw(tag, data, 8)
	case TagSmallInt:
		return takeRaw(tag, data, 1)
	case TagInt:
		return takeRaw(tag, data, 4)
	case TagAtom, TagAtomUTF8, TagString:
		return takeLenPrefixed(tag, data, 2)
	case TagSmallAtom, TagSmallAtomU8:
		return takeLenPrefixed(tag, data, 1)
	case TagBinary:
		return takeLenPrefixed(tag, data, 4)
	case TagNil:
		return &TreeNode{Tag: tag}, data, nil
	case TagSmallTuple:
		if len(data) < 1 {
			return nil, nil, ErrShortBuffer
		}
		return parseTreeChildren(tag, data[1:], int(data[0]))
	case TagLargeTuple:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		arity := int(binary.BigEndian.Uint32(data[:4]))
		return parseTreeChildren(tag, data[4:], arity)
	case TagList:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		n := int(binary.BigEndian.Uint32(data[:4]))
		node, rest, err := parseTreeChildren(tag, data[4:], n)
		if err != nil {
			return nil, nil, err
		}
		tail, rest, err := parseTreeNode(rest)
		if err != nil {
			return nil, nil, err
		}
		node.Children = append(node.Children, tail)
		return node, rest, nil
	case TagSmallBig:
		if len(data) < 1 {
			return nil, nil, ErrShortBuffer
		}
		n := 1 + int(data[0])
		return takeRaw(tag, data[1:], n)
	case TagLargeBig:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		n := 1 + int(binary.BigEndian.Uint32(data[:4]))
		return takeRaw(tag, data[4:], n)
	case TagMap:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		arity := int(binary.BigEndian.Uint32(data[:4]))
		data = data[4:]
		node := &TreeNode{Tag: tag}
		for i := 0; i < arity; i++ {
			var key, val *TreeNode
			var err error
			key, data, err = parseTreeNode(data)
			if err != nil {
				return nil, nil, err
			}
			val, data, err = parseTreeNode(data)
			if err != nil {
				return nil, nil, err
			}
			node.Keys = append(node.Keys, key)
			node.Children = append(node.Children, val)
		}
		return node, data, nil
	default:
		return nil, nil, ErrBadTag
	}
}

func takeRaw(tag Tag, data []byte, n int) (*TreeNode, []byte, error) {
	if len(data) < n {
		return nil, nil, ErrShortBuffer
	}
	raw := make([]byte, n)
	copy(raw, data[:n])
	return &TreeNode{Tag: tag, Raw: raw}, data[n:], nil
}

func takeLenPrefixed(tag Tag, data []byte, lenWidth int) (*TreeNode, []byte, error) {
	if len(data) < lenWidth {
		return nil, nil, ErrShortBuffer
	}
	var n int
	switch lenWidth {
	case 1:
		n = int(data[0])
	case 2:
		n = int(binary.BigEndian.Uint16(data[:2]))
	case 4:
		n = int(binary.BigEndian.Uint32(data[:4]))
	}
	data = data[lenWidth:]
	if len(data) < n {
		return nil, nil, ErrShortBuffer
	}
	raw := make([]byte, n)
	copy(raw, data[:n])
	return &TreeNode{Tag: tag, Raw: raw}, data[n:], nil
}

func parseTreeChildren(tag Tag, data []byte, count int) (*TreeNode, []byte, error) {
	node := &TreeNode{Tag: tag}
	for i := 0; i < count; i++ {
		var child *TreeNode
		var err error
		child, data, err = parseTreeNode(data)
		if err != nil {
			return nil, nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, data, nil
}
