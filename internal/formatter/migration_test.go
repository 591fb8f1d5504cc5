package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbtomodel/internal/schema"
)

func TestFormatDeclaration(t *testing.T) {
	tests := []struct {
		decl schema.Declaration
		want string
	}{
		{schema.Declaration{Method: "bigIncrements", Column: "id"}, "$table->bigIncrements('id');"},
		{schema.Declaration{Method: "timestamps"}, "$table->timestamps();"},
		{schema.Declaration{Method: "softDeletes"}, "$table->softDeletes();"},
		{
			schema.Declaration{Method: "string", Column: "name", Args: []string{"255"},
				Modifiers: []schema.Modifier{{Name: "nullable"}, {Name: "default", Args: []string{`'O\'Brien'`}}}},
			`$table->string('name', 255)->nullable()->default('O\'Brien');`,
		},
		{
			schema.Declaration{Method: "decimal", Column: "total", Args: []string{"10", "2"},
				Modifiers: []schema.Modifier{{Name: "default", Args: []string{"0"}}}},
			"$table->decimal('total', 10, 2)->default(0);",
		},
		{
			schema.Declaration{Method: "timestamp", Column: "seen_at", Modifiers: []schema.Modifier{{Name: "useCurrent"}}},
			"$table->timestamp('seen_at')->useCurrent();",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDeclaration(tt.decl))
	}
}

func TestRenderCreateMigration(t *testing.T) {
	r := NewMigrationRenderer(defaultStubs(t))

	name, content, err := r.RenderMigration(schema.Migration{
		Name:  "2024_05_01_093000_create_customers_table",
		Kind:  schema.CreateTable,
		Table: "customers",
		Declarations: []schema.Declaration{
			{Method: "bigIncrements", Column: "id"},
			{Method: "string", Column: "name", Args: []string{"100"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024_05_01_093000_create_customers_table.php", name)
	php := string(content)
	assert.Contains(t, php, `        Schema::create('customers', function (Blueprint $table) {
            $table->bigIncrements('id');
            $table->string('name', 100);
        });`)
	assert.Contains(t, php, "Schema::dropIfExists('customers');")
	assert.Contains(t, php, "return new class extends Migration")
}

func TestRenderAddColumnsMigration(t *testing.T) {
	r := NewMigrationRenderer(defaultStubs(t))

	_, content, err := r.RenderMigration(schema.Migration{
		Name:  "2024_05_01_093001_add_part_1_columns_to_products_table",
		Kind:  schema.AddColumns,
		Table: "products",
		Part:  1,
		Declarations: []schema.Declaration{
			{Method: "string", Column: "color", Modifiers: []schema.Modifier{{Name: "nullable"}}},
			{Method: "integer", Column: "stock"},
		},
		DropColumns: []string{"color", "stock"},
	})
	require.NoError(t, err)

	php := string(content)
	assert.Contains(t, php, "Schema::table('products', function (Blueprint $table) {\n            $table->string('color')->nullable();")
	assert.Contains(t, php, "$table->dropColumn(['color', 'stock']);")
	assert.NotContains(t, php, "dropIfExists")
}

func TestRenderForeignKeyMigration(t *testing.T) {
	r := NewMigrationRenderer(defaultStubs(t))

	orders := schema.ConstraintGroup{
		Table:       "orders",
		ForeignKeys: []schema.ForeignKey{{FromTable: "orders", FromColumn: "customer_id", ToTable: "customers", ToColumn: "id"}},
		OnDelete:    "cascade",
	}
	items := schema.ConstraintGroup{
		Table: "order_items",
		ForeignKeys: []schema.ForeignKey{
			{FromTable: "order_items", FromColumn: "order_id", ToTable: "orders", ToColumn: "id"},
			{FromTable: "order_items", FromColumn: "product_id", ToTable: "products", ToColumn: "id"},
		},
		OnDelete: "cascade",
	}

	name, content, err := r.RenderMigration(schema.Migration{
		Name:            "2024_05_01_093005_add_foreign_keys_to_tables",
		Kind:            schema.AddForeignKeys,
		Constraints:     []schema.ConstraintGroup{orders, items},
		DropConstraints: []schema.ConstraintGroup{items, orders},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024_05_01_093005_add_foreign_keys_to_tables.php", name)

	php := string(content)
	assert.Contains(t, php, `    public function up(): void
    {
        Schema::table('orders', function (Blueprint $table) {
            $table->foreign('customer_id')->references('id')->on('customers')->onDelete('cascade');
        });

        Schema::table('order_items', function (Blueprint $table) {
            $table->foreign('order_id')->references('id')->on('orders')->onDelete('cascade');
            $table->foreign('product_id')->references('id')->on('products')->onDelete('cascade');
        });
    }`)
	assert.Contains(t, php, `    public function down(): void
    {
        Schema::table('order_items', function (Blueprint $table) {
            $table->dropForeign(['order_id']);
            $table->dropForeign(['product_id']);
        });

        Schema::table('orders', function (Blueprint $table) {
            $table->dropForeign(['customer_id']);
        });
    }`)
}

func TestRenderUnknownMigrationKind(t *testing.T) {
	_, _, err := NewMigrationRenderer(defaultStubs(t)).RenderMigration(schema.Migration{Kind: schema.MigrationKind(9)})
	require.Error(t, err)
}
