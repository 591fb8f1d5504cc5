package schema

// RelationKind tells which side of a foreign key an accessor sits on
type RelationKind int

const (
	// Owning accessors live on the table holding the foreign key (many-to-one)
	Owning RelationKind = iota
	// Owned accessors live on the referenced table (one-to-many)
	Owned
)

// Cardinality returns the relationship cardinality seen from the accessor's table
func (k RelationKind) Cardinality() string {
	if k == Owning {
		return "N:1"
	}
	return "1:N"
}

func (k RelationKind) String() string {
	if k == Owning {
		return "owning"
	}
	return "owned"
}

// Relation is a relationship accessor on an entity.
// LocalColumn belongs to the entity's own table, ForeignColumn to TargetTable.
type Relation struct {
	Kind          RelationKind
	Accessor      string
	Target        string // entity name
	TargetTable   string
	LocalColumn   string
	ForeignColumn string
}

// Field is a translated column carried by an entity for renderers that declare fields
type Field struct {
	Column   string
	Type     string // target column type
	Nullable bool
}

// Entity is the generated description of one table
type Entity struct {
	Name        string
	Table       string
	PrimaryKey  string // empty when the key is the conventional "id"
	Fillable    []string
	Fields      []Field
	Relations   []Relation
	SoftDeletes bool
}

// Modifier is a chained call on a column declaration.
// Args are rendered literals.
type Modifier struct {
	Name string
	Args []string
}

// Declaration is one schema-builder operation.
// Column is empty for column-less declarations such as timestamps.
type Declaration struct {
	Method    string
	Column    string
	Args      []string
	Modifiers []Modifier
}

// MigrationKind is the shape of a migration artifact
type MigrationKind int

// Migration kinds
const (
	CreateTable MigrationKind = iota
	AddColumns
	AddForeignKeys
)

func (k MigrationKind) String() string {
	switch k {
	case CreateTable:
		return "create"
	case AddColumns:
		return "add"
	default:
		return "foreign"
	}
}

// ConstraintGroup holds the foreign keys owned by one table
type ConstraintGroup struct {
	Table       string
	ForeignKeys []ForeignKey
	OnDelete    string
}

// Migration is a schema-construction step and its inverse.
//
// CreateTable is undone by dropping Table. AddColumns is undone by dropping
// DropColumns. AddForeignKeys adds Constraints and is undone by dropping
// DropConstraints.
type Migration struct {
	Name            string
	Kind            MigrationKind
	Table           string
	Part            int
	Declarations    []Declaration
	DropColumns     []string
	Constraints     []ConstraintGroup
	DropConstraints []ConstraintGroup
}
